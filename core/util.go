package core

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Round2 rounds x to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Humanize lowers an upper-case API value and capitalizes its first letter: "MORNING" -> "Morning".
func Humanize(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
