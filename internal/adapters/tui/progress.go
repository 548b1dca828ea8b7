// Package tui показывает прогресс генерации черновиков в терминале.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bulletin-bot/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// DraftMsg сообщает о завершённой попытке генерации.
type DraftMsg domain.Draft

// DoneMsg сообщает о завершении всей партии.
type DoneMsg struct{ Err error }

// Model: модель bubbletea для прогресса партии.
type Model struct {
	title    string
	total    int
	spinner  spinner.Model
	drafts   []domain.Draft
	finished bool
	cancel   context.CancelFunc
}

// NewModel создаёт модель на total попыток. cancel вызывается по Ctrl+C.
func NewModel(title string, total int, cancel context.CancelFunc) Model {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle))
	return Model{title: title, total: total, spinner: s, cancel: cancel}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	case DraftMsg:
		m.drafts = append(m.drafts, domain.Draft(msg))
		return m, nil
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	if m.finished {
		b.WriteString(titleStyle.Render("✓ " + m.title))
	} else {
		b.WriteString(m.spinner.View() + " " + titleStyle.Render(m.title))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  [%d/%d]", len(m.drafts), m.total)))
	b.WriteString("\n")
	for _, d := range m.drafts {
		if d.Err != nil {
			b.WriteString(failStyle.Render(fmt.Sprintf("  ✗ #%d %v", d.Index, d.Err)))
		} else {
			b.WriteString(okStyle.Render(fmt.Sprintf("  ✓ #%d %s", d.Index, filepath.Base(d.Path))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run запускает work под TUI и возвращает её ошибку.
func Run(ctx context.Context, title string, total int, work func(ctx context.Context, onDraft func(domain.Draft)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, total, cancel))
	errCh := make(chan error, 1)
	go func() {
		err := work(ctx, func(d domain.Draft) { p.Send(DraftMsg(d)) })
		errCh <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-errCh
		return fmt.Errorf("tui: %w", err)
	}
	return <-errCh
}
