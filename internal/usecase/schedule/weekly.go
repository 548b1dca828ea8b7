package schedule

import (
	"time"

	"bulletin-bot/internal/domain"
)

// WeekNumber возвращает номер недели по ISO-8601.
func WeekNumber(date time.Time) int {
	_, week := date.ISOWeek()
	return week
}

// ResolveWeekly выбирает messages[(week-1) mod len] для ISO-недели даты today.
// Результат одинаков для любых дней одной недели.
func ResolveWeekly(today time.Time, messages []string) (string, error) {
	if len(messages) == 0 {
		return "", domain.ErrEmptyRotation
	}
	return messages[(WeekNumber(today)-1)%len(messages)], nil
}
