package drafts

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"bulletin-bot/internal/domain"
)

const truncationMarker = "\n\n[Context truncated due to size limit]"

type previousFile struct {
	path    string
	modTime time.Time
}

// ComposeContext собирает контекст для модели: список идей и последние сообщения
// хранилища (по времени изменения), с обрезкой до MaxContextChars.
func ComposeContext(repo fs.FS, messagesDir string, topic domain.Topic) (string, error) {
	var sections []string

	if topic.IncludeIdeas {
		ideas, err := fs.ReadFile(repo, cleanPath(topic.IdeasPath))
		switch {
		case err == nil:
			if text := strings.TrimSpace(string(ideas)); text != "" {
				sections = append(sections, "[Message Ideas]\n\n"+text+"\n")
			}
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("чтение идей %s: %w", topic.IdeasPath, err)
		}
	}

	if topic.IncludePrevious {
		previous, err := recentMessages(repo, messagesDir, topic.PreviousCount)
		if err != nil {
			return "", err
		}
		if len(previous) > 0 {
			sections = append(sections, "[Recent Messages]\n\n"+strings.Join(previous, "\n\n---\n\n"))
		}
	}

	context := strings.TrimSpace(strings.Join(sections, "\n\n"))
	return clip(context, topic.MaxContextChars), nil
}

func recentMessages(repo fs.FS, messagesDir string, limit int) ([]string, error) {
	root := cleanPath(messagesDir)
	var files []previousFile
	err := fs.WalkDir(repo, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, previousFile{path: p, modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("обход %s: %w", messagesDir, err)
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path > files[j].path
		}
		return files[i].modTime.After(files[j].modTime)
	})
	if limit >= 0 && len(files) > limit {
		files = files[:limit]
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		data, err := fs.ReadFile(repo, f.path)
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", f.path, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		out = append(out, fmt.Sprintf("[Previous: %s]\n\n%s\n", f.path, text))
	}
	return out, nil
}

func clip(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncationMarker
}

func cleanPath(p string) string {
	p = strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "./")
	if p == "" || p == "/" {
		return "."
	}
	return strings.TrimPrefix(p, "/")
}
