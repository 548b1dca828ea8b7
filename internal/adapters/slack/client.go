package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	slackgo "github.com/slack-go/slack"

	"bulletin-bot/internal/adapters/textsplit"
	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/metrics"
)

const (
	// Platform: имя платформы в метриках и квитанциях.
	Platform = "slack"
	// Slack рекомендует держать text в пределах 4000 символов.
	messageLimit = 4000
)

var hints = map[string]string{
	"channel_not_found": "проверьте ID канала и что бот добавлен в канал",
	"not_in_channel":    "бот не добавлен в канал",
	"is_archived":       "канал в архиве",
	"not_authed":        "проверьте SLACK_BOT_TOKEN",
	"invalid_auth":      "проверьте SLACK_BOT_TOKEN",
	"account_inactive":  "токен принадлежит отключённому приложению",
	"missing_scope":     "боту нужен scope chat:write",
}

// Client отправляет сообщения через Slack Web API.
type Client struct {
	api     *slackgo.Client
	timeout time.Duration
}

var _ domain.Deliverer = (*Client)(nil)

// NewClient создаёт клиента Slack. opts пробрасываются в slack-go (например, OptionAPIURL в тестах).
func NewClient(token string, timeout time.Duration, opts ...slackgo.Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{api: slackgo.New(token, opts...), timeout: timeout}
}

// Deliver публикует body в канал. Длинный текст уходит несколькими сообщениями.
func (c *Client) Deliver(ctx context.Context, channelID, body string) (domain.Receipt, error) {
	receipt := domain.Receipt{Platform: Platform, ChannelID: channelID}
	parts := textsplit.Split(body, messageLimit)
	if len(parts) == 0 {
		return receipt, fmt.Errorf("slack: пустое сообщение для канала %s", channelID)
	}
	for _, part := range parts {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		_, ts, err := c.api.PostMessageContext(callCtx, channelID, slackgo.MsgOptionText(part, false))
		cancel()
		metrics.ObserveNetworkRequest("slack", "chat_postMessage", channelID, start, err)
		if err != nil {
			return receipt, wrapError(channelID, err)
		}
		if receipt.Timestamp == "" {
			receipt.Timestamp = ts
		}
		receipt.Parts++
	}
	return receipt, nil
}

func wrapError(channelID string, err error) error {
	derr := &domain.DeliveryError{Platform: Platform, ChannelID: channelID, Err: err}
	var apiErr slackgo.SlackErrorResponse
	if errors.As(err, &apiErr) {
		derr.Code = apiErr.Err
		derr.Hint = hints[apiErr.Err]
	}
	var rateErr *slackgo.RateLimitedError
	if errors.As(err, &rateErr) {
		derr.Code = "ratelimited"
		derr.Hint = fmt.Sprintf("повторите через %s", rateErr.RetryAfter)
	}
	return derr
}
