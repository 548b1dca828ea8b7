package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("запись %s: %v", name, err)
	}
	return path
}

func TestLoadRotationYAMLSequence(t *testing.T) {
	path := writeFile(t, "weekly.yaml", "- første\n- andre\n- tredje\n")
	list, err := LoadRotation(path)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(list) != 3 || list[0] != "første" || list[2] != "tredje" {
		t.Fatalf("неожиданный список: %v", list)
	}
}

func TestLoadRotationYAMLMapping(t *testing.T) {
	path := writeFile(t, "weekly.yml", "messages:\n  - a\n  - b\n")
	list, err := LoadRotation(path)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(list) != 2 || list[1] != "b" {
		t.Fatalf("неожиданный список: %v", list)
	}
}

func TestLoadRotationTOML(t *testing.T) {
	path := writeFile(t, "weekly.toml", "messages = [\"x\", \"y\"]\n")
	list, err := LoadRotation(path)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(list) != 2 || list[0] != "x" {
		t.Fatalf("неожиданный список: %v", list)
	}
}

func TestDecodeFileUnknownExtension(t *testing.T) {
	path := writeFile(t, "weekly.txt", "a")
	var out rotationDoc
	if err := DecodeFile(path, &out); err == nil {
		t.Fatal("ожидали ошибку для .txt")
	}
}
