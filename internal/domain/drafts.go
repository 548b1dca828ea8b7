package domain

import "time"

// LengthBand задаёт целевую длину черновика в словах.
type LengthBand string

const (
	LengthShort  LengthBand = "short"
	LengthMedium LengthBand = "medium"
	LengthLong   LengthBand = "long"
)

// WordRange возвращает мягкие границы по числу слов.
func (b LengthBand) WordRange() (int, int) {
	switch b {
	case LengthShort:
		return 60, 120
	case LengthLong:
		return 220, 400
	default:
		return 120, 220
	}
}

// Topic: тема и стиль партии черновиков.
type Topic struct {
	Title           string     `yaml:"title" toml:"title" json:"title"`
	Prompt          string     `yaml:"prompt" toml:"prompt" json:"prompt"`
	Language        string     `yaml:"language" toml:"language" json:"language"`
	Organization    string     `yaml:"organization" toml:"organization" json:"organization"`
	StyleNotes      string     `yaml:"style_notes" toml:"style_notes" json:"style_notes"`
	Count           int        `yaml:"count" toml:"count" json:"count"`
	Length          LengthBand `yaml:"length" toml:"length" json:"length"`
	Temperature     *float64   `yaml:"temperature" toml:"temperature" json:"temperature"`
	Model           string     `yaml:"model" toml:"model" json:"model"`
	Category        string     `yaml:"category" toml:"category" json:"category"`
	FilenamePrefix  string     `yaml:"filename_prefix" toml:"filename_prefix" json:"filename_prefix"`
	OutputDir       string     `yaml:"output_dir" toml:"output_dir" json:"output_dir"`
	IncludePrevious bool       `yaml:"include_previous" toml:"include_previous" json:"include_previous"`
	PreviousCount   int        `yaml:"previous_count" toml:"previous_count" json:"previous_count"`
	IncludeIdeas    bool       `yaml:"include_ideas" toml:"include_ideas" json:"include_ideas"`
	IdeasPath       string     `yaml:"ideas_path" toml:"ideas_path" json:"ideas_path"`
	MaxContextChars int        `yaml:"max_context_chars" toml:"max_context_chars" json:"max_context_chars"`
}

// DraftRequest: готовые промпты для одного обращения к модели.
type DraftRequest struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	UserPrompt   string
}

// Draft: результат одной попытки генерации.
type Draft struct {
	Index int
	Path  string
	Err   error
}

// DraftBatch: итог партии черновиков.
type DraftBatch struct {
	Topic     string
	StartedAt time.Time
	Drafts    []Draft
}

// Written возвращает пути успешно сохранённых черновиков.
func (b DraftBatch) Written() []string {
	out := make([]string, 0, len(b.Drafts))
	for _, d := range b.Drafts {
		if d.Err == nil && d.Path != "" {
			out = append(out, d.Path)
		}
	}
	return out
}
