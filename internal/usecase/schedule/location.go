package schedule

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
var ErrInvalidTimezone = errors.New("invalid timezone")

// LoadLocation разбирает TZ, прощая регистр и пробелы ("europe/oslo" -> "Europe/Oslo").
func LoadLocation(raw string) (*time.Location, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return time.UTC, nil
	}
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if loc, err := time.LoadLocation(candidate); err == nil {
		return loc, nil
	}

	parts := strings.Split(strings.ToLower(candidate), "/")
	for i, part := range parts {
		segments := strings.Split(part, "_")
		for j, segment := range segments {
			pieces := strings.Split(segment, "-")
			for k, piece := range pieces {
				if piece == "" {
					continue
				}
				pieces[k] = strings.ToUpper(piece[:1]) + piece[1:]
			}
			segments[j] = strings.Join(pieces, "-")
		}
		parts[i] = strings.Join(segments, "_")
	}
	if loc, err := time.LoadLocation(strings.Join(parts, "/")); err == nil {
		return loc, nil
	}
	return nil, ErrInvalidTimezone
}

// Today возвращает полночь календарного дня now в поясе loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
