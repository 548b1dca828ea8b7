package domain

import (
	"context"
	"time"
)

// Deliverer отправляет одно сообщение в канал чат-платформы.
type Deliverer interface {
	Deliver(ctx context.Context, channelID, body string) (Receipt, error)
}

// PlanResolver строит план отправки на день.
type PlanResolver interface {
	Resolve(today time.Time) (Plan, error)
}

// DraftWriter генерирует текст одного черновика по промптам.
type DraftWriter interface {
	WriteDraft(ctx context.Context, req DraftRequest) (string, error)
}
