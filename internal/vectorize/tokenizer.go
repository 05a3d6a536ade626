// Package vectorize turns prompts into fixed-length sequences of token ids.
package vectorize

import (
	"strings"
	"unicode"

	"github.com/Veraticus/evento/internal/normalize"
)

// Tokenize lowercases text and splits it into words on whitespace,
// punctuation and symbols.
func Tokenize(text string) []string {
	return strings.FieldsFunc(normalize.Fold(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
