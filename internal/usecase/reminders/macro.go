package reminders

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var macroTemplates = map[string]string{
	"PPR": "Hei alle! I dag, %s, publiserer Norges Bank sin pengepolitiske rapport. " +
		"Dette er viktig for renteutsikter og økonomisk politikk i Norge.",
	"FOMC": "Hei alle! I dag, %s, har Fed (Den amerikanske sentralbanken) rentemøte. " +
		"Dette er viktig for USD og globale renteforventninger.",
	"NFP": "Hei alle! I dag, %s, publiseres Non-Farm Payrolls. " +
		"Dette er kritisk sysselsettingsdata som påvirker Fed-forventninger og USD.",
}

var norwegianMonths = map[string]string{
	"JAN": "januar", "FEB": "februar", "MAR": "mars", "APR": "april",
	"MAY": "mai", "JUN": "juni", "JUL": "juli", "AUG": "august",
	"SEP": "september", "OCT": "oktober", "NOV": "november", "DEC": "desember",
}

// ParsePeriod переводит ключ периода в читаемый вид:
// Q3_2025 -> "3. kvartal 2025" для PPR, Sep_2025 -> "september 2025" для FOMC/NFP.
// Нераспознанный ключ возвращается как есть.
func ParsePeriod(key, event string) string {
	upper := strings.ToUpper(strings.TrimSpace(key))
	switch event {
	case "PPR":
		if !strings.HasPrefix(upper, "Q") || len(upper) < 2 {
			return key
		}
		quarter := upper[1]
		_, year, found := strings.Cut(upper, "_")
		if quarter < '0' || quarter > '9' || !found || year == "" {
			return ""
		}
		return fmt.Sprintf("%c. kvartal %s", quarter, year)
	case "FOMC", "NFP":
		if month, year, found := strings.Cut(upper, "_"); found {
			if name, ok := norwegianMonths[month]; ok {
				return name + " " + year
			}
		}
	}
	return key
}

// MacroMessage собирает текст напоминания. Для PPR период вставляется после названия рапорта.
func MacroMessage(event string, day time.Time, period string) string {
	tmpl, ok := macroTemplates[event]
	if !ok {
		tmpl = macroTemplates["PPR"]
	}
	msg := fmt.Sprintf(tmpl, day.Format(humanLayout))
	if event == "PPR" && period != "" {
		msg = strings.Replace(msg, "pengepolitiske rapport", "pengepolitiske rapport for "+period, 1)
	}
	return msg
}

// CollectMacro раскладывает макрокалендарь {EVENT: {period: "YYYY-MM-DD"|null}}
// в cal. Неизвестные события и битые даты пропускаются с предупреждением.
func CollectMacro(data []byte, cal *Calendar, log zerolog.Logger) (Counts, error) {
	var counts Counts
	events, err := decodeObject(data)
	if err != nil {
		return counts, fmt.Errorf("макрокалендарь: %w", err)
	}
	for _, event := range events {
		if _, ok := macroTemplates[event.key]; !ok {
			log.Warn().Str("event", event.key).Msg("неизвестный тип события, пропуск")
			continue
		}
		periods, err := decodeObject(event.value)
		if err != nil {
			log.Warn().Str("event", event.key).Msg("ожидался объект период -> дата, пропуск")
			continue
		}
		for _, p := range periods {
			day, ok, err := eventDate(p.value)
			if err != nil {
				log.Warn().Err(err).Str("event", event.key).Str("period", p.key).Msg("пропуск события")
				counts.Skipped++
				continue
			}
			if !ok {
				continue
			}
			cal.Add(day, MacroMessage(event.key, day, ParsePeriod(p.key, event.key)))
			counts.Processed++
		}
	}
	return counts, nil
}
