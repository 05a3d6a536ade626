// Package normalize turns natural-language fragments of an event prompt into
// canonical amount, time and date values. Every function here is total: when
// nothing can be extracted it returns a documented sentinel instead of an error.
package normalize

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel values returned when a fragment cannot be found.
const (
	TimeSentinel = "00:00"
	DateSentinel = "YYYY-MM-DD"
)

// Fold lowercases text using Spanish casing rules.
func Fold(text string) string {
	// Casers carry state, so one is built per call.
	return cases.Lower(language.Spanish).String(text)
}
