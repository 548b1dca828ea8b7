package reminders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bulletin-bot/internal/usecase/schedule"
)

// Action: что произошло с файлом дня при записи.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

const (
	isoLayout   = "2006-01-02"
	humanLayout = "02.01.2006"
)

var errNotObject = errors.New("ожидался JSON-объект")

// Calendar группирует сообщения по дате напоминания в порядке добавления.
type Calendar struct {
	days map[time.Time][]string
}

// NewCalendar создаёт пустой календарь.
func NewCalendar() *Calendar {
	return &Calendar{days: make(map[time.Time][]string)}
}

// Add добавляет сообщение на день day.
func (c *Calendar) Add(day time.Time, message string) {
	key := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	c.days[key] = append(c.days[key], message)
}

// Days возвращает даты по возрастанию.
func (c *Calendar) Days() []time.Time {
	out := make([]time.Time, 0, len(c.days))
	for d := range c.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Messages возвращает сообщения дня.
func (c *Calendar) Messages(day time.Time) []string {
	return c.days[day]
}

// Len возвращает число дней.
func (c *Calendar) Len() int {
	return len(c.days)
}

// Merge дописывает сообщения, которых ещё нет в existing дословно.
func Merge(existing string, messages []string) string {
	content := strings.TrimSpace(existing)
	for _, msg := range messages {
		msg = strings.TrimSpace(msg)
		if msg == "" || strings.Contains(content, msg) {
			continue
		}
		if content == "" {
			content = msg
		} else {
			content += "\n\n" + msg
		}
	}
	return content + "\n"
}

// WriteDay создаёт или дополняет файл DD.MM.YY.md в dir.
func WriteDay(dir string, day time.Time, messages []string) (string, Action, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("каталог %s: %w", dir, err)
	}
	path := filepath.Join(dir, schedule.FormatDateKey(day)+".md")

	existing, err := os.ReadFile(path)
	action := ActionUpdated
	switch {
	case errors.Is(err, os.ErrNotExist):
		action = ActionCreated
	case err != nil:
		return path, "", fmt.Errorf("чтение %s: %w", path, err)
	}

	merged := Merge(string(existing), messages)
	if action == ActionUpdated && strings.TrimSpace(merged) == strings.TrimSpace(string(existing)) {
		return path, ActionUnchanged, nil
	}
	if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
		return path, "", fmt.Errorf("запись %s: %w", path, err)
	}
	return path, action, nil
}

// MarkParsed переименовывает обработанный файл в <name>_parsed_<YYYYMMDD_HHMMSS><ext>.
func MarkParsed(path string, now time.Time) (string, error) {
	ext := filepath.Ext(path)
	target := strings.TrimSuffix(path, ext) + "_parsed_" + now.Format("20060102_150405") + ext
	if err := os.Rename(path, target); err != nil {
		return path, err
	}
	return target, nil
}

type field struct {
	key   string
	value json.RawMessage
}

// decodeObject разбирает JSON-объект, сохраняя порядок ключей.
func decodeObject(raw []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}
	var out []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// eventDate разбирает значение даты. ok=false без ошибки означает пустую дату.
func eventDate(raw json.RawMessage) (time.Time, bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return time.Time{}, false, err
	}
	switch s := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case string:
		if strings.TrimSpace(s) == "" {
			return time.Time{}, false, nil
		}
		d, err := time.Parse(isoLayout, strings.TrimSpace(s))
		if err != nil {
			return time.Time{}, false, fmt.Errorf("некорректная дата %q", s)
		}
		return d, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("некорректная дата %s", string(raw))
	}
}
