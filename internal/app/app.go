// Package app собирает зависимости бинарников из конфигурации.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"bulletin-bot/internal/adapters/slack"
	"bulletin-bot/internal/adapters/telegram"
	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/config"
	applog "bulletin-bot/internal/infra/log"
	"bulletin-bot/internal/infra/metrics"
	"bulletin-bot/internal/usecase/delivery"
	"bulletin-bot/internal/usecase/schedule"
)

// Runtime: общая обвязка: конфиг, логгер и часовой пояс.
type Runtime struct {
	Cfg      config.AppConfig
	Log      zerolog.Logger
	Location *time.Location
}

// New проверяет часовой пояс и настраивает логгер.
func New(cfg config.AppConfig) (*Runtime, error) {
	logger := applog.NewLogger(cfg.AppEnv)
	loc, err := schedule.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, err
	}
	return &Runtime{Cfg: cfg, Log: logger, Location: loc}, nil
}

// Today: полночь текущего дня в настроенной зоне.
func (r *Runtime) Today() time.Time {
	return schedule.Today(time.Now(), r.Location)
}

// ParseDay разбирает YYYY-MM-DD в настроенной зоне; пустая строка: сегодня.
func (r *Runtime) ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.Today(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, r.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %q", raw)
	}
	return day, nil
}

// Resolver строит резолвер поверх каталога хранилища.
func (r *Runtime) Resolver() *schedule.Resolver {
	return schedule.NewResolver(os.DirFS(r.Cfg.Store.MessagesDir), schedule.Config{
		DefaultChannel: r.Cfg.DefaultChannel(),
		Location:       r.Location,
	})
}

// Rotation читает список недельной ротации.
func (r *Runtime) Rotation() ([]string, error) {
	return config.LoadRotation(r.Cfg.Store.WeeklyFile)
}

// Deliverer создаёт клиента платформы DELIVERY_PLATFORM.
func (r *Runtime) Deliverer() (domain.Deliverer, string, error) {
	platform := strings.ToLower(strings.TrimSpace(r.Cfg.Delivery.Platform))
	switch platform {
	case slack.Platform:
		if strings.TrimSpace(r.Cfg.Slack.Token) == "" {
			return nil, platform, fmt.Errorf("SLACK_BOT_TOKEN не задан")
		}
		return slack.NewClient(r.Cfg.Slack.Token, r.Cfg.Delivery.Timeout), platform, nil
	case telegram.Platform:
		if strings.TrimSpace(r.Cfg.Telegram.Token) == "" {
			return nil, platform, fmt.Errorf("TG_BOT_TOKEN не задан")
		}
		client, err := telegram.NewClient(r.Cfg.Telegram.Token, r.Cfg.Telegram.Endpoint, r.Cfg.Delivery.Timeout)
		if err != nil {
			return nil, platform, err
		}
		return client, platform, nil
	default:
		return nil, platform, fmt.Errorf("неизвестная платформа доставки %q (slack, telegram)", r.Cfg.Delivery.Platform)
	}
}

// DeliveryService собирает сервис доставки. В dry-run токен платформы не нужен.
func (r *Runtime) DeliveryService(dryRun bool) (*delivery.Service, error) {
	log := applog.Component(r.Log, "delivery")
	if dryRun {
		return delivery.NewService(r.Resolver(), nil, r.Cfg.Delivery.Platform, log).WithDryRun(true), nil
	}
	deliverer, platform, err := r.Deliverer()
	if err != nil {
		return nil, err
	}
	return delivery.NewService(r.Resolver(), deliverer, platform, log), nil
}

// RunDaily отправляет сообщения дня.
func (r *Runtime) RunDaily(ctx context.Context, svc *delivery.Service, day time.Time) error {
	_, err := svc.SendDaily(ctx, day)
	return err
}

// RunWeekly отправляет сообщение недельной ротации в канал по умолчанию.
func (r *Runtime) RunWeekly(ctx context.Context, svc *delivery.Service, day time.Time) error {
	rotation, err := r.Rotation()
	if err != nil {
		return err
	}
	_, err = svc.SendWeekly(ctx, day, r.Cfg.DefaultChannel(), rotation)
	return err
}

// PushMetrics отправляет метрики одноразового прогона в Pushgateway, если он задан.
func (r *Runtime) PushMetrics(ctx context.Context, job string) {
	if r.Cfg.PushgateURL == "" {
		return
	}
	if err := metrics.Push(ctx, r.Cfg.PushgateURL, job, prometheus.DefaultGatherer); err != nil {
		r.Log.Warn().Err(err).Str("job", job).Msg("не удалось отправить метрики")
	}
}
