package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/metrics"
	"bulletin-bot/internal/usecase/schedule"
)

// Report: итог одного прогона.
type Report struct {
	RunID     string
	Mode      string
	Date      time.Time
	Scheduled int
	Delivered int
	Skipped   int
	Failed    int
}

// Service отправляет запланированные сообщения: каждое независимо, без повторов.
type Service struct {
	resolver  domain.PlanResolver
	deliverer domain.Deliverer
	platform  string
	log       zerolog.Logger
	dryRun    bool
}

// NewService создаёт сервис доставки.
func NewService(resolver domain.PlanResolver, deliverer domain.Deliverer, platform string, log zerolog.Logger) *Service {
	return &Service{resolver: resolver, deliverer: deliverer, platform: platform, log: log}
}

// WithDryRun включает режим, в котором сообщения только логируются.
func (s *Service) WithDryRun(dryRun bool) *Service {
	s.dryRun = dryRun
	return s
}

// SendDaily отправляет всё, что датировано днём today.
// Ошибка: объединение всех сбоев прогона; пустой день не ошибка.
func (s *Service) SendDaily(ctx context.Context, today time.Time) (Report, error) {
	start := time.Now()
	report := s.newReport("daily", today)
	log := s.log.With().Str("run_id", report.RunID).Str("mode", report.Mode).Logger()

	plan, err := s.resolver.Resolve(today)
	if err != nil {
		metrics.ObserveRun(report.Mode, 0, start, err)
		return report, fmt.Errorf("разбор хранилища: %w", err)
	}
	report.Date = plan.Date
	report.Scheduled = len(plan.Deliveries) + len(plan.Failures)
	dateKey := schedule.FormatDateKey(plan.Date)

	if plan.Empty() {
		log.Info().Str("date", dateKey).Msg("на сегодня сообщений нет")
		metrics.ObserveRun(report.Mode, 0, start, nil)
		return report, nil
	}
	log.Info().Str("date", dateKey).Int("scheduled", report.Scheduled).Msg("найдены сообщения на сегодня")

	var errs []error
	for _, failure := range plan.Failures {
		report.Failed++
		log.Error().Err(failure.Err).Str("path", failure.Path).Msg("сообщение не будет отправлено")
		errs = append(errs, fmt.Errorf("%s: %w", failure.Path, failure.Err))
	}
	for i, item := range plan.Deliveries {
		itemLog := log.With().Str("path", item.Path).Str("channel", item.ChannelID).Int("n", i+1).Int("of", len(plan.Deliveries)).Logger()
		if err := s.deliver(ctx, itemLog, item.ChannelID, item.Body, &report); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.Path, err))
		}
	}

	err = errors.Join(errs...)
	s.finish(log, report, start, err)
	return report, err
}

// SendWeekly отправляет сообщение недельной ротации в канал по умолчанию.
func (s *Service) SendWeekly(ctx context.Context, today time.Time, channelID string, rotation []string) (Report, error) {
	start := time.Now()
	report := s.newReport("weekly", today)
	log := s.log.With().Str("run_id", report.RunID).Str("mode", report.Mode).Int("week", schedule.WeekNumber(today)).Logger()

	body, err := schedule.ResolveWeekly(today, rotation)
	if err == nil && strings.TrimSpace(channelID) == "" {
		err = domain.ErrNoChannel
	}
	if err != nil {
		report.Failed++
		log.Error().Err(err).Msg("недельное сообщение не будет отправлено")
		metrics.ObserveRun(report.Mode, 0, start, err)
		return report, err
	}
	report.Scheduled = 1

	err = s.deliver(ctx, log.With().Str("channel", channelID).Logger(), channelID, body, &report)
	s.finish(log, report, start, err)
	return report, err
}

func (s *Service) deliver(ctx context.Context, log zerolog.Logger, channelID, body string, report *Report) error {
	if strings.TrimSpace(body) == "" {
		report.Skipped++
		log.Warn().Msg("пустой файл сообщения, пропускаем")
		return nil
	}
	if s.dryRun {
		report.Skipped++
		log.Info().Str("preview", preview(body)).Msg("dry-run: сообщение не отправлено")
		return nil
	}
	log.Info().Str("preview", preview(body)).Msg("отправляем сообщение")
	receipt, err := s.deliverer.Deliver(ctx, channelID, body)
	metrics.ObserveDelivery(s.platform, err)
	if err != nil {
		report.Failed++
		log.Error().Err(err).Msg("не удалось отправить сообщение")
		return err
	}
	report.Delivered++
	log.Info().Str("ts", receipt.Timestamp).Int("parts", receipt.Parts).Msg("сообщение отправлено")
	return nil
}

func (s *Service) newReport(mode string, today time.Time) Report {
	return Report{RunID: uuid.NewString(), Mode: mode, Date: today}
}

func (s *Service) finish(log zerolog.Logger, report Report, start time.Time, err error) {
	metrics.ObserveRun(report.Mode, report.Scheduled, start, err)
	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}
	event.Int("delivered", report.Delivered).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("took", time.Since(start)).
		Msg("прогон завершён")
}

func preview(body string) string {
	text := strings.Join(strings.Fields(body), " ")
	runes := []rune(text)
	if len(runes) > 100 {
		return string(runes[:100]) + "..."
	}
	return text
}
