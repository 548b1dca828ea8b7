package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

var (
	DeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulletin_deliveries_total",
		Help: "Попытки отправки сообщений по платформам и статусам",
	}, []string{"platform", "status"})

	ScheduledMessages = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bulletin_scheduled_messages",
		Help: "Сообщений, запланированных на последний прогон",
	}, []string{"mode"})

	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bulletin_run_duration_seconds",
		Help:    "Длительность прогона бота",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode", "status"})

	DraftsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulletin_drafts_total",
		Help: "Сгенерированные черновики по статусам",
	}, []string{"status"})

	RemindersWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulletin_reminder_files_total",
		Help: "Файлы напоминаний, созданные или дополненные",
	}, []string{"source", "action"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		DeliveriesTotal,
		ScheduledMessages,
		RunDuration,
		DraftsTotal,
		RemindersWritten,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
	}
}

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(collectors()...)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// Push отправляет метрики разового прогона в Pushgateway. Пустой url: no-op.
func Push(ctx context.Context, url, job string, gatherer prometheus.Gatherer) error {
	if url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(gatherer).PushContext(ctx)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	duration := time.Since(start).Seconds()
	s := status(err)
	NetworkRequestDuration.WithLabelValues(component, operation, target, s).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, s).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// ObserveDelivery учитывает одну попытку отправки.
func ObserveDelivery(platform string, err error) {
	DeliveriesTotal.WithLabelValues(platform, status(err)).Inc()
}

// ObserveRun записывает итог прогона в режиме mode.
func ObserveRun(mode string, scheduled int, start time.Time, err error) {
	ScheduledMessages.WithLabelValues(mode).Set(float64(scheduled))
	RunDuration.WithLabelValues(mode, status(err)).Observe(time.Since(start).Seconds())
}

// ObserveDraft учитывает одну попытку генерации черновика.
func ObserveDraft(err error) {
	DraftsTotal.WithLabelValues(status(err)).Inc()
}

// ObserveReminderFile учитывает файл напоминаний (action: created, updated, unchanged).
func ObserveReminderFile(source, action string) {
	RemindersWritten.WithLabelValues(source, action).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
