package drafts

import (
	"fmt"
	"strings"

	"bulletin-bot/internal/domain"
)

// SystemPrompt задаёт роль и формат ответа модели.
func SystemPrompt(t domain.Topic) string {
	minWords, maxWords := t.Length.WordRange()
	parts := []string{
		fmt.Sprintf("Du er en ekspert fagformidler som skriver for %s.", t.Organization),
		fmt.Sprintf("Skriv på %s.", t.Language),
	}
	if notes := strings.TrimSpace(t.StyleNotes); notes != "" {
		parts = append(parts, notes)
	}
	parts = append(parts,
		fmt.Sprintf("Mål mot cirka %d–%d ord.", minWords, maxWords),
		"Returner KUN selve teksten for Slack, uten innpakning, overskrifter, metadata eller forklaringer.",
	)
	return strings.Join(parts, " ")
}

// UserPrompt собирает задание: контекст, тему, требования и детали.
func UserPrompt(t domain.Topic, context string) string {
	var parts []string
	if context != "" {
		parts = append(parts, "Kontekst (tidligere ideer og meldinger):\n"+context)
	}
	if title := strings.TrimSpace(t.Title); title != "" {
		parts = append(parts, "Tema/Tittel: "+title)
	}
	parts = append(parts,
		"Oppgave: Skriv en pedagogisk, konsis og nyttig Slack-vennlig tekst om temaet.",
		"Krav: Unngå repetisjon av tidligere meldinger, ingen innledende høflighetsfraser, ingen hilsener, ingen overskrift med #.",
		"Leveranse: Kun selve innholdet, klar til innliming i Slack. Ikke bruk ``` eller annen innpakning.",
	)
	if body := strings.TrimSpace(t.Prompt); body != "" {
		parts = append(parts, "Detaljer/Ønsker:\n"+body)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
