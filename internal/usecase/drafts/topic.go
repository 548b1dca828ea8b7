package drafts

import (
	"fmt"
	"strings"

	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/config"
)

const (
	defaultLanguage     = "Norwegian"
	defaultOrganization = "studentklubben"
	defaultCount        = 3
	defaultTemperature  = 0.8
	defaultPrefix       = "proposal"
	defaultOutputDir    = "inbox"
	defaultPrevious     = 5
	defaultIdeasPath    = "message-ideas.md"
	defaultContextChars = 16000
)

// LoadTopic читает тему партии из YAML/TOML/JSON и заполняет значения по умолчанию.
func LoadTopic(path string) (domain.Topic, error) {
	var topic domain.Topic
	if err := config.DecodeFile(path, &topic); err != nil {
		return domain.Topic{}, err
	}
	topic = WithDefaults(topic)
	if err := Validate(topic); err != nil {
		return domain.Topic{}, fmt.Errorf("%s: %w", path, err)
	}
	return topic, nil
}

// WithDefaults подставляет значения по умолчанию в незаданные поля.
func WithDefaults(t domain.Topic) domain.Topic {
	if strings.TrimSpace(t.Language) == "" {
		t.Language = defaultLanguage
	}
	if strings.TrimSpace(t.Organization) == "" {
		t.Organization = defaultOrganization
	}
	if t.Count <= 0 {
		t.Count = defaultCount
	}
	if t.Length == "" {
		t.Length = domain.LengthMedium
	}
	if t.Temperature == nil {
		v := defaultTemperature
		t.Temperature = &v
	}
	if t.FilenamePrefix == "" {
		t.FilenamePrefix = defaultPrefix
	}
	if t.OutputDir == "" {
		t.OutputDir = defaultOutputDir
	}
	if t.PreviousCount <= 0 {
		t.PreviousCount = defaultPrevious
	}
	if t.IdeasPath == "" {
		t.IdeasPath = defaultIdeasPath
	}
	if t.MaxContextChars <= 0 {
		t.MaxContextChars = defaultContextChars
	}
	return t
}

// Validate проверяет тему после подстановки значений по умолчанию.
func Validate(t domain.Topic) error {
	if strings.TrimSpace(t.Title) == "" && strings.TrimSpace(t.Prompt) == "" {
		return fmt.Errorf("в теме нужен title или prompt")
	}
	switch t.Length {
	case domain.LengthShort, domain.LengthMedium, domain.LengthLong:
	default:
		return fmt.Errorf("неизвестная длина %q (short, medium, long)", t.Length)
	}
	if t.Temperature != nil && (*t.Temperature < 0 || *t.Temperature > 2) {
		return fmt.Errorf("temperature вне диапазона 0..2: %v", *t.Temperature)
	}
	return nil
}
