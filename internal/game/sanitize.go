package game

import (
	"strings"
	"unicode"
)

// sanitizeInput drops control and formatting characters from player input
// and folds every other kind of whitespace to a plain space. Escape bytes
// never survive, so players cannot smuggle colour codes into chat or tags.
func sanitizeInput(s string) string {
	return strings.Map(sanitizeRune, s)
}

// sanitizeRune maps r for strings.Map; a negative result drops the rune.
func sanitizeRune(r rune) rune {
	switch {
	case r == '\r':
		return -1
	case unicode.IsSpace(r):
		return ' '
	case unicode.IsControl(r), unicode.Is(unicode.Cf, r), !unicode.IsPrint(r):
		return -1
	}
	return r
}

// sanitizeTelnetString keeps only the printable ASCII of a negotiation payload.
func sanitizeTelnetString(raw []byte) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r >= 0x7f {
			return -1
		}
		return r
	}, string(raw))
}
