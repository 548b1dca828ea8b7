package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bulletin-bot/internal/app"
	"bulletin-bot/internal/infra/config"
	applog "bulletin-bot/internal/infra/log"
	"bulletin-bot/internal/infra/metrics"
	"bulletin-bot/internal/usecase/reminders"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outDir string
	root := &cobra.Command{
		Use:          "populate",
		Short:        "Раскладывает календари в файлы напоминаний хранилища",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&outDir, "out", "", "каталог напоминаний (по умолчанию REMINDERS_DIR)")

	var macroPath string
	macro := &cobra.Command{
		Use:   "macro",
		Short: "Напоминания о PPR, FOMC и NFP из макрокалендаря",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), "populate_macro", outDir, func(rt *app.Runtime, p *reminders.Populator) error {
				path := macroPath
				if path == "" {
					path = rt.Cfg.Reminders.MacroFile
				}
				_, err := p.Macro(path)
				return err
			})
		},
	}
	macro.Flags().StringVar(&macroPath, "file", "", "макрокалендарь (по умолчанию MACRO_FILE)")

	var src reminders.ReportSources
	reports := &cobra.Command{
		Use:   "reports",
		Short: "Напоминания о квартальных отчётах за три дня до публикации",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), "populate_reports", outDir, func(rt *app.Runtime, p *reminders.Populator) error {
				r := rt.Cfg.Reminders
				_, err := p.Reports(reminders.ReportSources{
					Dir:          config.FirstNonEmpty(src.Dir, r.ReportsDir),
					LegacyFile:   config.FirstNonEmpty(src.LegacyFile, r.LegacyFile),
					StocksCSV:    config.FirstNonEmpty(src.StocksCSV, r.StocksCSV),
					DefaultGroup: config.FirstNonEmpty(src.DefaultGroup, r.DefaultGroup),
				})
				return err
			})
		},
	}
	reports.Flags().StringVar(&src.Dir, "dir", "", "каталог календарей (по умолчанию REPORTS_DIR)")
	reports.Flags().StringVar(&src.LegacyFile, "legacy", "", "одиночный календарь (по умолчанию REPORTS_LEGACY_FILE)")
	reports.Flags().StringVar(&src.StocksCSV, "stocks", "", "CSV тикер -> группа (по умолчанию STOCKS_CSV)")
	reports.Flags().StringVar(&src.DefaultGroup, "group", "", "группа по умолчанию (по умолчанию ANALYSE_GRUPPE)")

	root.AddCommand(macro, reports)
	return root
}

func run(ctx context.Context, job, outDir string, fn func(*app.Runtime, *reminders.Populator) error) error {
	rt, err := app.New(config.Load())
	if err != nil {
		return err
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)
	defer rt.PushMetrics(ctx, job)

	dir := config.FirstNonEmpty(outDir, rt.Cfg.Reminders.OutputDir)
	populator := reminders.NewPopulator(dir, applog.Component(rt.Log, "reminders"))
	if err := fn(rt, populator); err != nil {
		rt.Log.Error().Err(err).Str("job", job).Msg("populate: ошибка")
		return err
	}
	return nil
}
