package normalize

import (
	"strconv"
	"strings"
)

// Amount keeps only the ASCII digits of text and parses them as an integer.
// Empty input, input without digits and digit strings that overflow an int
// all yield 0.
func Amount(text string) int {
	if text == "" {
		return 0
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
