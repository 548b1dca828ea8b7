package domain

import (
	"errors"
	"fmt"
)

// ErrNoChannel возвращается, если канал не задан ни файлом в папке, ни окружением.
var ErrNoChannel = errors.New("канал не настроен: нет файла " + ChannelFileName + " и переменных SLACK_CHANNEL_ID/SLACK_CHANNEL")

// ErrEmptyRotation возвращается для пустого списка недельной ротации.
var ErrEmptyRotation = errors.New("список недельных сообщений пуст")

// ErrEmptyDraft возвращается, если модель вернула пустой текст.
var ErrEmptyDraft = errors.New("модель вернула пустой черновик")

// DeliveryError описывает отказ платформы доставки.
type DeliveryError struct {
	Platform  string
	ChannelID string
	Code      string
	Hint      string
	Err       error
}

func (e *DeliveryError) Error() string {
	msg := fmt.Sprintf("%s: канал %s", e.Platform, e.ChannelID)
	if e.Code != "" {
		msg += ": " + e.Code
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
