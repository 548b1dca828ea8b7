package reminders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseQuarter(t *testing.T) {
	cases := map[string]int{"Q3_2025": 3, "q4": 4, "Q12x": 12}
	for key, want := range cases {
		if got, ok := ParseQuarter(key); !ok || got != want {
			t.Fatalf("ParseQuarter(%q): ожидали %d, получили %d/%v", key, want, got, ok)
		}
	}
	for _, key := range []string{"", "H1_2025", "Q_2025"} {
		if _, ok := ParseQuarter(key); ok {
			t.Fatalf("ParseQuarter(%q) должен вернуть false", key)
		}
	}
}

func TestLoadTickerGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	writeFile(t, path, " ticker , GROUP\nEqnr,3\nNHY,\n,5\nmowi,1\n")
	groups := LoadTickerGroups(path, zerolog.Nop())
	if len(groups) != 2 || groups["EQNR"] != "3" || groups["MOWI"] != "1" {
		t.Fatalf("неожиданная карта %v", groups)
	}
	if got := LoadTickerGroups(filepath.Join(t.TempDir(), "missing.csv"), zerolog.Nop()); len(got) != 0 {
		t.Fatalf("отсутствующий файл даёт пустую карту")
	}
}

func TestFindReportFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "reports")
	legacy := filepath.Join(root, "reports.json")
	writeFile(t, legacy, "{}")

	files, err := FindReportFiles(dir, legacy)
	if err != nil || len(files) != 1 || files[0] != legacy {
		t.Fatalf("без каталога ожидали legacy-файл, получили %v, %v", files, err)
	}

	writeFile(t, filepath.Join(dir, "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "a.JSON"), "{}")
	writeFile(t, filepath.Join(dir, "old_parsed_20250101_000000.json"), "{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	files, err = FindReportFiles(dir, legacy)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.JSON" || filepath.Base(files[1]) != "b.json" {
		t.Fatalf("неожиданные файлы %v", files)
	}
}

func TestCollectReports(t *testing.T) {
	data := []byte(`{"EQNR": {"Q3_2025": "2025-10-23", "Q4_2025": null, "H2": "2025-11-01", "Q1_2026": "bad"}, "XYZ": []}`)
	cal := NewCalendar()
	counts, err := CollectReports(data, map[string]string{"EQNR": "3"}, "Analysegruppen", cal, zerolog.Nop())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if counts.Processed != 1 || counts.Skipped != 2 {
		t.Fatalf("неожиданные счётчики %+v", counts)
	}
	msgs := cal.Messages(time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC))
	want := "Hei alle! EQNR slipper 3.kvartalsrapport 23.10.2025. gruppe 3 har analyseansvar, men alle oppfordres til å følge med."
	if len(msgs) != 1 || msgs[0] != want {
		t.Fatalf("ожидали %q за три дня до отчёта, получили %v", want, msgs)
	}
}

func TestPopulatorReports(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "reports")
	writeFile(t, filepath.Join(dir, "oslo.json"), `{"MOWI": {"Q3_2025": "2025-11-05"}}`)
	writeFile(t, filepath.Join(dir, "broken.json"), `{`)
	out := filepath.Join(root, "messages", "diskusjon")
	writeFile(t, filepath.Join(out, "02.11.25.md"), "Eksisterende melding\n")

	p := NewPopulator(out, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC) }
	summary, err := p.Reports(ReportSources{Dir: dir, DefaultGroup: "Analysegruppen"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(summary.Files) != 1 || summary.Files[0].Action != ActionUpdated {
		t.Fatalf("ожидали дополнение существующего файла: %+v", summary.Files)
	}
	data, _ := os.ReadFile(filepath.Join(out, "02.11.25.md"))
	if !strings.HasPrefix(string(data), "Eksisterende melding\n\nHei alle! MOWI") || !strings.Contains(string(data), "gruppe Analysegruppen") {
		t.Fatalf("неожиданное содержимое %q", data)
	}
	if len(summary.Renamed) != 1 || !strings.HasPrefix(filepath.Base(summary.Renamed[0]), "oslo_parsed_") {
		t.Fatalf("переименовать нужно только успешно прочитанный файл: %v", summary.Renamed)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.json")); err != nil {
		t.Fatalf("битый файл должен остаться на месте: %v", err)
	}
}

func TestPopulatorReportsKeepsSourcesWhenWriteFails(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "reports")
	source := filepath.Join(dir, "oslo.json")
	writeFile(t, source, `{"MOWI": {"Q3_2025": "2025-11-05"}}`)
	out := filepath.Join(root, "diskusjon")
	writeFile(t, out, "это файл, а не каталог")

	p := NewPopulator(out, zerolog.Nop())
	summary, err := p.Reports(ReportSources{Dir: dir, DefaultGroup: "Analysegruppen"})
	if err == nil {
		t.Fatal("ожидали ошибку записи")
	}
	if len(summary.Renamed) != 0 {
		t.Fatalf("календари не должны помечаться обработанными: %v", summary.Renamed)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("исходный календарь должен остаться для повторного запуска: %v", err)
	}
}
