package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bulletin-bot/internal/app"
	"bulletin-bot/internal/infra/config"
	"bulletin-bot/internal/infra/metrics"
	"bulletin-bot/internal/usecase/schedule"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	date   string
	dryRun bool
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:          "bot",
		Short:        "Отправляет сообщения, запланированные на сегодня",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), "daily", opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.date, "date", "", "день в формате YYYY-MM-DD (по умолчанию сегодня в TZ)")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "только логировать, ничего не отправлять")

	root.AddCommand(
		&cobra.Command{
			Use:   "daily",
			Short: "Отправить файлы DD.MM.YY.* на сегодня",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), "daily", opts)
			},
		},
		&cobra.Command{
			Use:   "weekly",
			Short: "Отправить сообщение недельной ротации",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), "weekly", opts)
			},
		},
		&cobra.Command{
			Use:   "preview",
			Short: "Показать план на день в JSON",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return preview(cmd, opts)
			},
		},
	)
	return root
}

func run(ctx context.Context, mode string, opts options) error {
	rt, err := app.New(config.Load())
	if err != nil {
		return err
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)
	defer rt.PushMetrics(context.WithoutCancel(ctx), "bulletin_"+mode)

	day, err := rt.ParseDay(opts.date)
	if err != nil {
		return err
	}
	svc, err := rt.DeliveryService(opts.dryRun)
	if err != nil {
		rt.Log.Error().Err(err).Msg("bot: доставка не настроена")
		return err
	}
	if mode == "weekly" {
		err = rt.RunWeekly(ctx, svc, day)
	} else {
		err = rt.RunDaily(ctx, svc, day)
	}
	if err != nil {
		rt.Log.Error().Err(err).Str("mode", mode).Msg("bot: прогон завершился с ошибками")
	}
	return err
}

type previewItem struct {
	Path      string `json:"path"`
	ChannelID string `json:"channel_id,omitempty"`
	Body      string `json:"body,omitempty"`
	Error     string `json:"error,omitempty"`
}

func preview(cmd *cobra.Command, opts options) error {
	rt, err := app.New(config.Load())
	if err != nil {
		return err
	}
	day, err := rt.ParseDay(opts.date)
	if err != nil {
		return err
	}
	plan, err := rt.Resolver().Resolve(day)
	if err != nil {
		return err
	}
	items := make([]previewItem, 0, len(plan.Deliveries)+len(plan.Failures))
	for _, d := range plan.Deliveries {
		items = append(items, previewItem{Path: d.Path, ChannelID: d.ChannelID, Body: d.Body})
	}
	for _, f := range plan.Failures {
		items = append(items, previewItem{Path: f.Path, Error: f.Err.Error()})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"date":  schedule.FormatDateKey(day),
		"week":  schedule.WeekNumber(day),
		"items": items,
	})
}
