package game

import (
	"slices"
	"strings"
)

// Escape sequences used for server chrome. Tag colours live in the tags
// package.
const (
	AnsiReset     = "\x1b[0m"
	AnsiBold      = "\x1b[1m"
	AnsiDim       = "\x1b[2m"
	AnsiUnderline = "\x1b[4m"
	AnsiRed       = "\x1b[31m"
	AnsiGreen     = "\x1b[32m"
	AnsiYellow    = "\x1b[33m"
	AnsiMagenta   = "\x1b[35m"
	AnsiCyan      = "\x1b[36m"
)

const csiPrefix = "\x1b["

// Style wraps text in the given attributes followed by a reset. Text is
// returned unchanged when no attributes are given.
func Style(text string, attrs ...string) string {
	if len(attrs) == 0 {
		return text
	}
	return strings.Join(attrs, "") + text + AnsiReset
}

func HighlightName(name string) string {
	return Style(name, AnsiBold, AnsiCyan)
}

// FilterOut returns a copy of list without entries equal to name, ignoring case.
func FilterOut(list []string, name string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(entry string) bool {
		return strings.EqualFold(entry, name)
	})
}

// Trim sanitises a line of telnet input and strips surrounding space.
func Trim(s string) string {
	return strings.TrimSpace(sanitizeInput(s))
}

// Ansi terminates any styled output with a reset so colours never bleed
// into the next line.
func Ansi(c string) string {
	if !strings.Contains(c, csiPrefix) || strings.HasSuffix(c, AnsiReset) {
		return c
	}
	return c + AnsiReset
}

func Prompt(*Player) string {
	return Ansi(Style("\r\n> ", AnsiBold, AnsiYellow))
}
