package schedule

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"bulletin-bot/internal/domain"
)

var dateStem = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2})$`)

// Config: настройки резолвера, собранные один раз при старте процесса.
type Config struct {
	// DefaultChannel используется, если в папке файла нет .channel.
	DefaultChannel string
	Location       *time.Location
}

// Resolver выбирает сообщения на день из хранилища и определяет их каналы.
type Resolver struct {
	store fs.FS
	cfg   Config
}

var _ domain.PlanResolver = (*Resolver)(nil)

// NewResolver создаёт резолвер поверх хранилища сообщений.
func NewResolver(store fs.FS, cfg Config) *Resolver {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	cfg.DefaultChannel = strings.TrimSpace(cfg.DefaultChannel)
	return &Resolver{store: store, cfg: cfg}
}

// ParseDateKey разбирает имя файла вида DD.MM.YY.<ext>; год YY означает 20YY.
// Второе значение false, если имя не подходит под шаблон или дата несуществующая.
func ParseDateKey(name string, loc *time.Location) (time.Time, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return time.Time{}, false
	}
	m := dateStem.FindStringSubmatch(strings.TrimSuffix(name, ext))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	date := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date нормализует 30.02 в 02.03
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return date, true
}

// FormatDateKey возвращает ключ DD.MM.YY для даты.
func FormatDateKey(date time.Time) string {
	return date.Format("02.01.06")
}

// Files возвращает все датированные файлы хранилища в лексикографическом порядке путей.
// Отсутствующий корень хранилища означает пустой список.
func (r *Resolver) Files() ([]domain.MessageFile, error) {
	var files []domain.MessageFile
	err := fs.WalkDir(r.store, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		date, ok := ParseDateKey(d.Name(), r.cfg.Location)
		if !ok {
			return nil
		}
		files = append(files, domain.MessageFile{Path: p, Date: date})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("обход хранилища: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Resolve строит план на календарный день today.
func (r *Resolver) Resolve(today time.Time) (domain.Plan, error) {
	day := Today(today, r.cfg.Location)
	plan := domain.Plan{Date: day}

	files, err := r.Files()
	if err != nil {
		return plan, err
	}
	for _, file := range files {
		if !sameDay(file.Date, day) {
			continue
		}
		channelID, err := r.ResolveChannel(file.Path)
		if err != nil {
			plan.Failures = append(plan.Failures, domain.ResolveFailure{Path: file.Path, Err: err})
			continue
		}
		body, err := fs.ReadFile(r.store, file.Path)
		if err != nil {
			plan.Failures = append(plan.Failures, domain.ResolveFailure{Path: file.Path, Err: fmt.Errorf("чтение %s: %w", file.Path, err)})
			continue
		}
		plan.Deliveries = append(plan.Deliveries, domain.ResolvedDelivery{
			Path:      file.Path,
			ChannelID: channelID,
			Body:      string(body),
		})
	}
	return plan, nil
}

// ResolveChannel возвращает канал для файла: первая непустая строка .channel
// в его папке (без подъёма к родителям), иначе канал по умолчанию.
func (r *Resolver) ResolveChannel(filePath string) (string, error) {
	sentinel := path.Join(path.Dir(filePath), domain.ChannelFileName)
	data, err := fs.ReadFile(r.store, sentinel)
	switch {
	case err == nil:
		if channelID := firstLine(data); channelID != "" {
			return channelID, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("чтение %s: %w", sentinel, err)
	}
	return r.DefaultChannel()
}

// DefaultChannel возвращает канал процесса или domain.ErrNoChannel.
func (r *Resolver) DefaultChannel() (string, error) {
	if r.cfg.DefaultChannel == "" {
		return "", domain.ErrNoChannel
	}
	return r.cfg.DefaultChannel, nil
}

func firstLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
