package util

import (
	"strings"
	"unicode"
)

// NormalizeText prepares user-supplied plain text (captions, comments) for
// storage. The text is kept as written: "<", "&" and friends are content, not
// markup, and escaping is left to whatever renders it. Surrounding whitespace is
// trimmed, invalid UTF-8 is dropped, and control characters other than newline
// and tab are removed so stored text cannot carry terminal escape sequences.
func NormalizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
