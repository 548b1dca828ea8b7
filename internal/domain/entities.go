package domain

import "time"

// ChannelFileName: зарезервированное имя файла с переопределением канала в папке хранилища.
const ChannelFileName = ".channel"

// MessageFile описывает файл сообщения, датированный по имени DD.MM.YY.<ext>.
type MessageFile struct {
	// Path относительно корня хранилища, через "/".
	Path string
	Date time.Time
}

// ResolvedDelivery: сообщение вместе с каналом назначения, готовое к отправке.
type ResolvedDelivery struct {
	Path      string `json:"path"`
	ChannelID string `json:"channel_id"`
	Body      string `json:"body"`
}

// ResolveFailure: файл на сегодня, для которого не удалось определить канал или прочитать текст.
type ResolveFailure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Plan: результат разбора хранилища на конкретный день.
type Plan struct {
	Date       time.Time
	Deliveries []ResolvedDelivery
	Failures   []ResolveFailure
}

// Empty сообщает, что на день ничего не запланировано.
func (p Plan) Empty() bool {
	return len(p.Deliveries) == 0 && len(p.Failures) == 0
}

// Receipt подтверждает отправку сообщения платформой.
type Receipt struct {
	Platform  string
	ChannelID string
	Timestamp string
	Parts     int
}
