package matcher

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and drops every whitespace rune, leading, trailing or internal.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// isSpace matches the whitespace class of browser regular expressions: the
// Unicode space separators plus the byte order mark, but not NEL (U+0085).
func isSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
