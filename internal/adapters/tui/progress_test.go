package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelCollectsDrafts(t *testing.T) {
	var m tea.Model = NewModel("Renter", 2, nil)
	m, _ = m.Update(DraftMsg{Index: 1, Path: "inbox/renter-proposal-1.md"})
	m, _ = m.Update(DraftMsg{Index: 2, Err: errors.New("rate limited")})

	view := m.View()
	if !strings.Contains(view, "[2/2]") {
		t.Fatalf("ожидали счётчик 2/2: %s", view)
	}
	if !strings.Contains(view, "renter-proposal-1.md") || !strings.Contains(view, "rate limited") {
		t.Fatalf("ожидали строки по каждому черновику: %s", view)
	}
}

func TestModelQuitsWhenDone(t *testing.T) {
	m := NewModel("x", 1, nil)
	next, cmd := m.Update(DoneMsg{})
	if cmd == nil {
		t.Fatal("ожидали команду выхода")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ожидали tea.QuitMsg")
	}
	if !next.(Model).finished {
		t.Fatal("модель должна быть завершена")
	}
}

func TestModelCancelsOnCtrlC(t *testing.T) {
	cancelled := false
	m := NewModel("x", 1, func() { cancelled = true })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !cancelled {
		t.Fatal("Ctrl+C должен отменять генерацию")
	}
}
