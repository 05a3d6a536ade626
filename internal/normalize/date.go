package normalize

import (
	"strings"
	"time"
)

// Spanish weekday names in match order, indexed Monday = 0.
var weekdays = []string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}

// Date looks for a Spanish weekday name in text and returns the next date on
// or after today that falls on it, formatted YYYY-MM-DD. A weekday equal to
// today's yields today. Without a weekday name it returns DateSentinel.
func Date(text string, today time.Time) string {
	folded := Fold(text)
	for index, day := range weekdays {
		if !strings.Contains(folded, day) {
			continue
		}
		offset := ((index-mondayIndex(today.Weekday()))%7 + 7) % 7
		return today.AddDate(0, 0, offset).Format(time.DateOnly)
	}
	return DateSentinel
}

// mondayIndex converts a time.Weekday (Sunday = 0) to a Monday = 0 index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
