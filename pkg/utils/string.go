// Package utils provides common text helpers.
package utils

import (
	"strings"
	"unicode/utf8"
)

// NormalizeWhitespace replaces runs of whitespace with a single space and
// trims the result.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateRunes cuts str to at most maxRunes characters. It never splits a
// multi-byte character.
func TruncateRunes(str string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	if utf8.RuneCountInString(str) <= maxRunes {
		return str
	}

	n := 0
	for i := range str {
		if n == maxRunes {
			return str[:i]
		}
		n++
	}

	return str
}

// Snake lowercases str and replaces spaces with underscores.
func Snake(str string) string {
	return strings.ReplaceAll(strings.ToLower(str), " ", "_")
}
