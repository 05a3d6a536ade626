package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timePattern = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)

// Time finds the first clock expression in text and formats it as HH:MM.
//
// A "pm" suffix adds 12 hours unless the hour is already 12. "12am" is not
// special-cased and stays 12:00. The hour is not range-checked, so "50USD"
// yields "50:00".
func Time(text string) string {
	value, _ := TimeSpan(text)
	return value
}

// TimeSpan is Time plus the byte offsets [start, end) of the matched
// fragment, or nil when nothing matched.
func TimeSpan(text string) (string, []int) {
	m := timePattern.FindStringSubmatchIndex(text)
	if m == nil {
		return TimeSentinel, nil
	}

	hour, err := strconv.Atoi(text[m[2]:m[3]])
	if err != nil {
		return TimeSentinel, nil
	}

	minute := 0
	if m[4] >= 0 {
		minute, err = strconv.Atoi(text[m[4]:m[5]])
		if err != nil {
			return TimeSentinel, nil
		}
	}

	if m[6] >= 0 && strings.EqualFold(text[m[6]:m[7]], "pm") && hour != 12 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), []int{m[0], m[1]}
}

// WithoutTime returns text with its first clock expression removed, so that
// the digits of "3PM" are not mistaken for an amount.
func WithoutTime(text string) string {
	_, span := TimeSpan(text)
	if span == nil {
		return text
	}
	return text[:span[0]] + " " + text[span[1]:]
}
