package game

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CHARSET subnegotiation codes from RFC 2066.
const (
	charsetRequest  byte = 1
	charsetAccepted byte = 2
	charsetRejected byte = 3
)

// charsetOffer lists the character sets in order of preference.
var charsetOffer = []byte(";UTF-8;ISO-8859-1;CP437")

// knownCharsets maps normalised names to their charmap. UTF-8 needs no
// translation and maps to nil.
var knownCharsets = map[string]*charmap.Charmap{
	"UTF8":     nil,
	"ISO88591": charmap.ISO8859_1,
	"LATIN1":   charmap.ISO8859_1,
	"CP437":    charmap.CodePage437,
	"IBM437":   charmap.CodePage437,
	"437":      charmap.CodePage437,
}

func normalizeToken(name string) string {
	var builder strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func lookupCharset(name string) (*charmap.Charmap, bool) {
	cm, ok := knownCharsets[normalizeToken(name)]
	return cm, ok
}

// parseCharsetList splits a REQUEST payload. The first byte is the separator.
func parseCharsetList(raw string) []string {
	if raw == "" {
		return nil
	}
	sep := raw[:1]
	var out []string
	for _, part := range strings.Split(raw[1:], sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func encodeWithCharmap(cm *charmap.Charmap, data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if b, ok := cm.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

func decodeWithCharmap(cm *charmap.Charmap, data []byte) string {
	var builder strings.Builder
	builder.Grow(len(data))
	for _, b := range data {
		builder.WriteRune(cm.DecodeByte(b))
	}
	return builder.String()
}
