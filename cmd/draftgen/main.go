package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bulletin-bot/internal/adapters/drafter"
	"bulletin-bot/internal/adapters/tui"
	"bulletin-bot/internal/app"
	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/config"
	applog "bulletin-bot/internal/infra/log"
	"bulletin-bot/internal/infra/metrics"
	openai "bulletin-bot/internal/infra/openai"
	"bulletin-bot/internal/usecase/drafts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	count     int
	outputDir string
	model     string
	noTUI     bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "draftgen <topic.yaml|topic.toml|topic.json>",
		Short:        "Генерирует черновики сообщений для ручного ревью",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.count, "count", 0, "сколько черновиков сгенерировать (перекрывает тему)")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "каталог для черновиков (перекрывает тему)")
	cmd.Flags().StringVar(&opts.model, "model", "", "модель (перекрывает тему и OPENAI_MODEL)")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "без интерактивного прогресса, только логи")
	return cmd
}

func run(ctx context.Context, topicPath string, opts options) error {
	cfg := config.Load()
	rt, err := app.New(cfg)
	if err != nil {
		return err
	}
	metrics.MustRegister(prometheus.DefaultRegisterer)
	defer rt.PushMetrics(context.WithoutCancel(ctx), "bulletin_drafts")

	if cfg.OpenAI.APIKey == "" {
		err := errors.New("OPENAI_API_KEY не задан")
		rt.Log.Error().Err(err).Msg("draftgen: генератор не настроен")
		return err
	}
	topic, err := drafts.LoadTopic(topicPath)
	if err != nil {
		rt.Log.Error().Err(err).Msg("draftgen: некорректная тема")
		return err
	}
	if opts.count > 0 {
		topic.Count = opts.count
	}
	if opts.outputDir != "" {
		topic.OutputDir = opts.outputDir
	}
	if opts.model != "" {
		topic.Model = opts.model
	}

	writer := drafter.NewOpenAI(openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout), cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	interactive := !opts.noTUI && isatty.IsTerminal(os.Stdout.Fd())
	log := applog.Component(rt.Log, "drafts")
	if interactive {
		log = log.Level(zerolog.ErrorLevel)
	}
	svc := drafts.NewService(writer, os.DirFS("."), cfg.Store.MessagesDir, cfg.Drafts.Parallelism, log)

	var batch domain.DraftBatch
	generate := func(ctx context.Context, onDraft func(domain.Draft)) error {
		var err error
		batch, err = svc.OnProgress(onDraft).Generate(ctx, topic)
		return err
	}

	title := topic.Title
	if title == "" {
		title = topicPath
	}
	if interactive {
		err = tui.Run(ctx, title, topic.Count, generate)
	} else {
		err = generate(ctx, func(domain.Draft) {})
	}

	written := batch.Written()
	for _, p := range written {
		fmt.Println(p)
	}
	if err != nil {
		rt.Log.Error().Err(err).Int("written", len(written)).Msg("draftgen: часть черновиков не сгенерирована")
		return err
	}
	rt.Log.Info().Int("written", len(written)).Str("dir", topic.OutputDir).Msg("draftgen: готово")
	return nil
}
