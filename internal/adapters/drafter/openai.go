package drafter

import (
	"context"
	"fmt"
	"time"

	"bulletin-bot/internal/domain"
	openai "bulletin-bot/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI пишет черновики через OpenAI Chat Completions.
type OpenAI struct {
	client  chatClient
	model   string
	timeout time.Duration
}

var _ domain.DraftWriter = (*OpenAI)(nil)

// NewOpenAI создаёт генератор; model используется, если тема не задала свою.
func NewOpenAI(client chatClient, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAI{client: client, model: model, timeout: timeout}
}

// WriteDraft делает один запрос к модели и возвращает текст черновика.
func (o *OpenAI) WriteDraft(ctx context.Context, req domain.DraftRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = o.model
	}
	temperature := req.Temperature
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: &temperature,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: req.SystemPrompt},
			{Role: openai.RoleUser, Content: req.UserPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	text := resp.Content()
	if text == "" {
		return "", domain.ErrEmptyDraft
	}
	return text, nil
}
