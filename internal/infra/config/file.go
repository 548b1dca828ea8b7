package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DecodeFile читает YAML, TOML или JSON в v по расширению файла.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	case ".toml":
		err = toml.Unmarshal(data, v)
	case ".json":
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%s: неподдерживаемый формат %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("разбор %s: %w", path, err)
	}
	return nil
}

type rotationDoc struct {
	Messages []string `yaml:"messages" toml:"messages" json:"messages"`
}

// LoadRotation читает упорядоченный список сообщений недельной ротации.
// YAML допускает как список верхнего уровня, так и ключ messages.
func LoadRotation(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение %s: %w", path, err)
		}
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("разбор %s: %w", path, err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var list []string
			if err := node.Content[0].Decode(&list); err != nil {
				return nil, fmt.Errorf("разбор %s: %w", path, err)
			}
			return list, nil
		}
	}
	var doc rotationDoc
	if err := DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	return doc.Messages, nil
}
