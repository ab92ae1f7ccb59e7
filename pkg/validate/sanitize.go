package validate

import (
	"html"
	"strings"
	"unicode"
)

// EscapeText neutralizes markup in free-text input: control characters
// are removed and HTML special characters entity-escaped.
func EscapeText(input string) string {
	return html.EscapeString(removeControlChars(input))
}

// removeControlChars removes control characters except newline, carriage
// return, and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
