package config

import "testing"

func TestChannelsPriority(t *testing.T) {
	t.Setenv("SLACK_CHANNEL_ID", "")
	t.Setenv("SLACK_CHANNEL", "C999")
	cfg, err := Process()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got := cfg.DefaultChannel(); got != "C999" {
		t.Fatalf("ожидали C999, получили %q", got)
	}
}

func TestChannelsFirstWins(t *testing.T) {
	t.Setenv("SLACK_CHANNEL_ID", "C1")
	t.Setenv("SLACK_CHANNEL", "C2")
	cfg, err := Process()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got := cfg.DefaultChannel(); got != "C1" {
		t.Fatalf("ожидали C1, получили %q", got)
	}
}

func TestChannelsWhitespaceIsUnset(t *testing.T) {
	t.Setenv("SLACK_CHANNEL_ID", "   ")
	t.Setenv("SLACK_CHANNEL", "")
	cfg, err := Process()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got := cfg.DefaultChannel(); got != "" {
		t.Fatalf("ожидали пустой канал, получили %q", got)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Process()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if cfg.Delivery.Platform != "slack" {
		t.Fatalf("ожидали slack по умолчанию, получили %q", cfg.Delivery.Platform)
	}
	if cfg.Store.MessagesDir != "messages" {
		t.Fatalf("ожидали messages, получили %q", cfg.Store.MessagesDir)
	}
}
