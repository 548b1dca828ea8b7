package drafts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/metrics"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\-\s_]`)
	slugCollapse = regexp.MustCompile(`[\s_]+`)
)

// ProgressFunc вызывается после каждой попытки генерации, в том числе конкурентно.
type ProgressFunc func(domain.Draft)

// Service генерирует партию черновиков для ручного ревью.
type Service struct {
	writer      domain.DraftWriter
	repo        fs.FS
	messagesDir string
	parallelism int
	log         zerolog.Logger
	now         func() time.Time
	progress    ProgressFunc
}

// NewService создаёт генератор черновиков. repo: корень репозитория
// (идеи и хранилище сообщений читаются относительно него).
func NewService(writer domain.DraftWriter, repo fs.FS, messagesDir string, parallelism int, log zerolog.Logger) *Service {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Service{
		writer:      writer,
		repo:        repo,
		messagesDir: messagesDir,
		parallelism: parallelism,
		log:         log,
		now:         time.Now,
	}
}

// OnProgress подписывает на результаты отдельных попыток.
func (s *Service) OnProgress(fn ProgressFunc) *Service {
	s.progress = fn
	return s
}

// Generate делает topic.Count независимых попыток. Сбой одной не отменяет остальные;
// ошибка: объединение всех сбоев, сохранённые черновики остаются в batch.
func (s *Service) Generate(ctx context.Context, topic domain.Topic) (domain.DraftBatch, error) {
	topic = WithDefaults(topic)
	if err := Validate(topic); err != nil {
		return domain.DraftBatch{}, err
	}
	batch := domain.DraftBatch{Topic: topic.Title, StartedAt: s.now()}

	promptContext, err := ComposeContext(s.repo, s.messagesDir, topic)
	if err != nil {
		return batch, fmt.Errorf("контекст: %w", err)
	}
	req := domain.DraftRequest{
		Model:        topic.Model,
		Temperature:  *topic.Temperature,
		SystemPrompt: SystemPrompt(topic),
		UserPrompt:   UserPrompt(topic, promptContext),
	}
	s.log.Info().
		Str("topic", topic.Title).
		Int("count", topic.Count).
		Str("length", string(topic.Length)).
		Int("context_chars", len([]rune(promptContext))).
		Msg("генерация черновиков")

	if err := os.MkdirAll(topic.OutputDir, 0o755); err != nil {
		return batch, fmt.Errorf("каталог %s: %w", topic.OutputDir, err)
	}

	stamp := batch.StartedAt.Format("20060102-150405")
	hint := slugify(topic.Category)
	if hint == "" {
		hint = slugify(topic.Title)
	}
	if hint == "" {
		hint = "message"
	}

	batch.Drafts = make([]domain.Draft, topic.Count)
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i := 0; i < topic.Count; i++ {
		i := i
		g.Go(func() error {
			draft := domain.Draft{Index: i + 1}
			name := fmt.Sprintf("%s-%s-%d-%s.md", hint, topic.FilenamePrefix, i+1, stamp)
			draft.Path, draft.Err = s.generateOne(ctx, req, filepath.Join(topic.OutputDir, name))
			batch.Drafts[i] = draft
			metrics.ObserveDraft(draft.Err)
			if draft.Err != nil {
				s.log.Error().Err(draft.Err).Int("index", draft.Index).Msg("черновик не сгенерирован")
			} else {
				s.log.Info().Int("index", draft.Index).Str("path", draft.Path).Msg("черновик сохранён")
			}
			if s.progress != nil {
				s.progress(draft)
			}
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, d := range batch.Drafts {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("черновик %d: %w", d.Index, d.Err))
		}
	}
	return batch, errors.Join(errs...)
}

func (s *Service) generateOne(ctx context.Context, req domain.DraftRequest, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := s.writer.WriteDraft(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyDraft
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("запись %s: %w", path, err)
	}
	return path, nil
}

func slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = slugStrip.ReplaceAllString(text, "")
	text = slugCollapse.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
