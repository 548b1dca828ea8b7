package reminders

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"bulletin-bot/internal/infra/metrics"
)

const (
	SourceMacro   = "macro"
	SourceReports = "reports"
)

// Counts: число принятых и пропущенных записей календаря.
type Counts struct {
	Processed int
	Skipped   int
}

// FileResult: итог записи одного файла дня.
type FileResult struct {
	Path   string
	Action Action
}

// Summary: итог прогона наполнителя.
type Summary struct {
	Source  string
	Counts  Counts
	Files   []FileResult
	Renamed []string
}

// ReportSources: входные файлы для напоминаний об отчётах.
type ReportSources struct {
	Dir          string
	LegacyFile   string
	StocksCSV    string
	DefaultGroup string
}

// Populator пишет напоминания в каталог хранилища сообщений.
type Populator struct {
	outDir string
	log    zerolog.Logger
	now    func() time.Time
}

// NewPopulator создаёт наполнитель, пишущий в outDir.
func NewPopulator(outDir string, log zerolog.Logger) *Populator {
	return &Populator{outDir: outDir, log: log, now: time.Now}
}

// Macro обрабатывает макрокалендарь и помечает файл обработанным.
func (p *Populator) Macro(path string) (Summary, error) {
	summary := Summary{Source: SourceMacro}
	data, err := os.ReadFile(path)
	if err != nil {
		return summary, fmt.Errorf("макрокалендарь %s: %w", path, err)
	}
	cal := NewCalendar()
	summary.Counts, err = CollectMacro(data, cal, p.log)
	if err != nil {
		return summary, err
	}
	if cal.Len() == 0 {
		p.log.Info().Str("path", path).Msg("нет дат для напоминаний")
		return summary, nil
	}
	if summary.Files, err = p.write(SourceMacro, cal); err != nil {
		return summary, err
	}
	p.markParsed(path, &summary)
	p.logSummary(summary)
	return summary, nil
}

// Reports обрабатывает все необработанные календари отчётов.
// Файл, который не удалось прочитать, пропускается и не переименовывается;
// остальные помечаются обработанными только после успешной записи напоминаний.
func (p *Populator) Reports(src ReportSources) (Summary, error) {
	summary := Summary{Source: SourceReports}
	files, err := FindReportFiles(src.Dir, src.LegacyFile)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		p.log.Info().Str("dir", src.Dir).Msg("необработанных календарей отчётов нет")
		return summary, nil
	}

	groups := LoadTickerGroups(src.StocksCSV, p.log)
	cal := NewCalendar()
	var parsed []string
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err == nil {
			var counts Counts
			counts, err = CollectReports(data, groups, src.DefaultGroup, cal, p.log)
			summary.Counts.Processed += counts.Processed
			summary.Counts.Skipped += counts.Skipped
		}
		if err != nil {
			p.log.Error().Err(err).Str("path", path).Msg("календарь отчётов пропущен")
			summary.Counts.Skipped++
			continue
		}
		parsed = append(parsed, path)
	}

	if cal.Len() > 0 {
		if summary.Files, err = p.write(SourceReports, cal); err != nil {
			return summary, err
		}
	}
	for _, path := range parsed {
		p.markParsed(path, &summary)
	}
	p.logSummary(summary)
	return summary, nil
}

func (p *Populator) write(source string, cal *Calendar) ([]FileResult, error) {
	results := make([]FileResult, 0, cal.Len())
	for _, day := range cal.Days() {
		path, action, err := WriteDay(p.outDir, day, cal.Messages(day))
		if err != nil {
			return results, err
		}
		metrics.ObserveReminderFile(source, string(action))
		p.log.Info().Str("path", path).Str("action", string(action)).Msg("файл напоминаний")
		results = append(results, FileResult{Path: path, Action: action})
	}
	return results, nil
}

func (p *Populator) markParsed(path string, summary *Summary) {
	target, err := MarkParsed(path, p.now())
	if err != nil {
		p.log.Error().Err(err).Str("path", path).Msg("не удалось пометить файл обработанным")
		return
	}
	summary.Renamed = append(summary.Renamed, target)
}

func (p *Populator) logSummary(s Summary) {
	ev := p.log.Info()
	if s.Counts.Skipped > 0 {
		ev = p.log.Warn()
	}
	ev.Str("source", s.Source).
		Int("processed", s.Counts.Processed).
		Int("skipped", s.Counts.Skipped).
		Int("files", len(s.Files)).
		Msg("напоминания подготовлены")
}
