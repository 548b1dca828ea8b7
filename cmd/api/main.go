package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"bulletin-bot/internal/adapters/preview"
	"bulletin-bot/internal/app"
	"bulletin-bot/internal/infra/config"
	httpinfra "bulletin-bot/internal/infra/http"
	"bulletin-bot/internal/infra/metrics"
)

func main() {
	rt, err := app.New(config.Load())
	if err != nil {
		log.Fatal().Err(err).Msg("api: некорректная конфигурация")
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := rt.Log.With().Str("component", "api").Logger()
	server := httpinfra.NewServer(logger, fmt.Sprintf(":%d", rt.Cfg.Port))
	preview.NewHandler(rt.Resolver(), rt.Rotation, rt.Location, logger).Routes(server.Router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("api: ошибка остановки")
		}
	}()

	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("api: сервер остановлен")
	}
}
