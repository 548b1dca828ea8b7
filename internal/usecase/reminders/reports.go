package reminders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	reportTemplate = "Hei alle! %s slipper %d.kvartalsrapport %s. " +
		"gruppe %s har analyseansvar, men alle oppfordres til å følge med."
	reportLead = 3 * 24 * time.Hour
)

// ParseQuarter извлекает номер квартала из ключа вида Q3_2025.
func ParseQuarter(key string) (int, bool) {
	upper := strings.ToUpper(strings.TrimSpace(key))
	if !strings.HasPrefix(upper, "Q") {
		return 0, false
	}
	digits := upper[1:]
	if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = digits[:i]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ReportMessage собирает напоминание о квартальном отчёте.
func ReportMessage(ticker string, quarter int, reportDay time.Time, group string) string {
	return fmt.Sprintf(reportTemplate, ticker, quarter, reportDay.Format(humanLayout), group)
}

// LoadTickerGroups читает CSV с колонками Ticker и Group (регистр заголовков не важен).
// Отсутствующий или битый файл даёт пустую карту.
func LoadTickerGroups(path string, log zerolog.Logger) map[string]string {
	groups := make(map[string]string)
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("карта групп недоступна, используется группа по умолчанию")
		return groups
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("не удалось прочитать заголовок")
		return groups
	}
	tickerCol, groupCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))) {
		case "ticker":
			tickerCol = i
		case "group":
			groupCol = i
		}
	}
	if tickerCol < 0 || groupCol < 0 {
		log.Warn().Str("path", path).Msg("в CSV нет колонок Ticker и Group")
		return groups
	}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if tickerCol >= len(row) || groupCol >= len(row) {
			continue
		}
		ticker := strings.TrimSpace(row[tickerCol])
		group := strings.TrimSpace(row[groupCol])
		if ticker == "" || group == "" {
			continue
		}
		groups[strings.ToUpper(ticker)] = group
	}
	return groups
}

// FindReportFiles возвращает необработанные *.json из dir; если их нет, то legacy-файл.
func FindReportFiles(dir, legacy string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("каталог отчётов %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !unparsedJSON(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 && legacy != "" && unparsedJSON(filepath.Base(legacy)) {
		if info, err := os.Stat(legacy); err == nil && !info.IsDir() {
			files = append(files, legacy)
		}
	}
	sort.Strings(files)
	return files, nil
}

func unparsedJSON(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json") && !strings.Contains(name, "_parsed_")
}

// CollectReports раскладывает календарь {TICKER: {Q3_2025: "YYYY-MM-DD"|null}} в cal,
// напоминание ставится за три дня до отчёта.
func CollectReports(data []byte, groups map[string]string, defaultGroup string, cal *Calendar, log zerolog.Logger) (Counts, error) {
	var counts Counts
	tickers, err := decodeObject(data)
	if err != nil {
		return counts, fmt.Errorf("календарь отчётов: %w", err)
	}
	for _, t := range tickers {
		quarters, err := decodeObject(t.value)
		if err != nil {
			log.Warn().Str("ticker", t.key).Msg("ожидался объект квартал -> дата, пропуск")
			continue
		}
		group := defaultGroup
		if g, ok := groups[strings.ToUpper(t.key)]; ok {
			group = g
		}
		for _, q := range quarters {
			day, ok, err := eventDate(q.value)
			if err == nil && !ok {
				continue
			}
			quarter, qok := ParseQuarter(q.key)
			if !qok {
				log.Warn().Str("ticker", t.key).Str("quarter", q.key).Msg("не удалось разобрать квартал")
				counts.Skipped++
				continue
			}
			if err != nil {
				log.Warn().Err(err).Str("ticker", t.key).Str("quarter", q.key).Msg("пропуск отчёта")
				counts.Skipped++
				continue
			}
			cal.Add(day.Add(-reportLead), ReportMessage(t.key, quarter, day, group))
			counts.Processed++
		}
	}
	return counts, nil
}
