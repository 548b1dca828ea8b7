package textsplit

import (
	"strings"
	"testing"
)

func TestSplitRespectsLimit(t *testing.T) {
	var builder strings.Builder
	builder.WriteString(strings.Repeat("a", 3000))
	builder.WriteString("\n\n")
	builder.WriteString(strings.Repeat("b", 2000))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("c", 500))

	parts := Split(builder.String(), 4096)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	for i, part := range parts {
		if length := len([]rune(part)); length > 4096 {
			t.Fatalf("part %d exceeds limit: %d", i, length)
		}
	}
	if parts[0] != strings.Repeat("a", 3000) {
		t.Fatalf("unexpected content in first part")
	}
	if !strings.HasPrefix(parts[1], "b") || !strings.HasSuffix(parts[1], strings.Repeat("c", 500)) {
		t.Fatalf("unexpected second part")
	}
}

func TestSplitCountsRunes(t *testing.T) {
	text := strings.Repeat("ø", 10)
	parts := Split(text, 4)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[2] != "øø" {
		t.Fatalf("unexpected tail %q", parts[2])
	}
}

func TestSplitShortText(t *testing.T) {
	parts := Split("  God jul!\n", 4000)
	if len(parts) != 1 || parts[0] != "  God jul!\n" {
		t.Fatalf("unexpected parts: %q", parts)
	}
}

func TestSplitEmpty(t *testing.T) {
	if parts := Split("   \n  ", 10); len(parts) != 0 {
		t.Fatalf("expected no parts for empty input, got %d", len(parts))
	}
}
