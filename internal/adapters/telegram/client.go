package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bulletin-bot/internal/adapters/textsplit"
	"bulletin-bot/internal/domain"
	"bulletin-bot/internal/infra/metrics"
)

const (
	// Platform: имя платформы в метриках и квитанциях.
	Platform     = "telegram"
	messageLimit = 4096
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client отправляет сообщения через Telegram Bot API.
// ID канала: числовой chat id или @username публичного канала.
type Client struct {
	bot sender
}

var _ domain.Deliverer = (*Client)(nil)

// NewClient создаёт бота без сетевых вызовов: токен проверяется первой отправкой,
// поэтому пустой день не зависит от доступности Telegram. endpoint пустой: api.telegram.org.
func NewClient(token, endpoint string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram: пустой токен бота")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)
	return &Client{bot: bot}, nil
}

// Deliver отправляет body, разбивая его по лимиту Telegram.
func (c *Client) Deliver(ctx context.Context, channelID, body string) (domain.Receipt, error) {
	receipt := domain.Receipt{Platform: Platform, ChannelID: channelID}
	parts := textsplit.Split(body, messageLimit)
	if len(parts) == 0 {
		return receipt, fmt.Errorf("telegram: пустое сообщение для канала %s", channelID)
	}
	target := strings.TrimSpace(channelID)
	chatID, numeric := parseChatID(target)
	if !numeric && !strings.HasPrefix(target, "@") {
		return receipt, &domain.DeliveryError{Platform: Platform, ChannelID: channelID, Code: "bad_channel", Hint: "ожидали числовой chat id или @username"}
	}
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return receipt, err
		}
		var msg tgbotapi.MessageConfig
		if numeric {
			msg = tgbotapi.NewMessage(chatID, part)
		} else {
			msg = tgbotapi.NewMessageToChannel(target, part)
		}
		start := time.Now()
		sent, err := c.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", target, start, err)
		if err != nil {
			return receipt, wrapError(channelID, err)
		}
		if receipt.Timestamp == "" {
			receipt.Timestamp = strconv.Itoa(sent.MessageID)
		}
		receipt.Parts++
	}
	return receipt, nil
}

func parseChatID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

func wrapError(channelID string, err error) error {
	derr := &domain.DeliveryError{Platform: Platform, ChannelID: channelID, Err: err}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		derr.Code = strconv.Itoa(apiErr.Code)
		derr.Hint = apiErr.Message
	}
	return derr
}
