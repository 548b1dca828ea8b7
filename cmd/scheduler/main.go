package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"bulletin-bot/internal/app"
	"bulletin-bot/internal/infra/config"
	"bulletin-bot/internal/infra/metrics"
)

func main() {
	rt, err := app.New(config.Load())
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler: некорректная конфигурация")
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := rt.DeliveryService(false)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler: доставка не настроена")
	}

	logger := rt.Log.With().Str("component", "scheduler").Logger()
	c := cron.New(
		cron.WithLocation(rt.Location),
		cron.WithChain(cron.Recover(cron.PrintfLogger(&logger)), cron.SkipIfStillRunning(cron.PrintfLogger(&logger))),
	)

	if _, err := c.AddFunc(rt.Cfg.Cron.Daily, func() {
		if err := rt.RunDaily(ctx, svc, rt.Today()); err != nil {
			logger.Error().Err(err).Msg("scheduler: ежедневный прогон с ошибками")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", rt.Cfg.Cron.Daily).Msg("scheduler: некорректный DAILY_CRON")
	}
	if rt.Cfg.Cron.Weekly != "" {
		if _, err := c.AddFunc(rt.Cfg.Cron.Weekly, func() {
			if err := rt.RunWeekly(ctx, svc, rt.Today()); err != nil {
				logger.Error().Err(err).Msg("scheduler: недельный прогон с ошибками")
			}
		}); err != nil {
			log.Fatal().Err(err).Str("spec", rt.Cfg.Cron.Weekly).Msg("scheduler: некорректный WEEKLY_CRON")
		}
	}

	metrics.StartServer(ctx, logger, rt.Cfg.MetricsAddr)
	c.Start()
	logger.Info().
		Str("daily", rt.Cfg.Cron.Daily).
		Str("weekly", rt.Cfg.Cron.Weekly).
		Str("tz", rt.Location.String()).
		Msg("scheduler: запущен")

	<-ctx.Done()
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("scheduler: задачи не завершились за 30s")
	}
}
