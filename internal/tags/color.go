package tags

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color is one entry of the fixed chat palette. The palette mixes genuine
// hues with formatting modifiers; only hues may colour a tag.
type Color int

const (
	Black Color = iota
	DarkBlue
	DarkGreen
	DarkAqua
	DarkRed
	DarkPurple
	Gold
	Gray
	DarkGray
	Blue
	Green
	Aqua
	Red
	LightPurple
	Yellow
	White
	Magic
	Bold
	Strikethrough
	Underline
	Italic
	Reset
)

// DefaultColor is assigned to freshly created records.
const DefaultColor = Gray

const resetCode = "\x1b[0m"

type paletteEntry struct {
	name  string
	code  string
	isHue bool
}

var palette = [...]paletteEntry{
	Black:         {"BLACK", "\x1b[30m", true},
	DarkBlue:      {"DARK_BLUE", "\x1b[34m", true},
	DarkGreen:     {"DARK_GREEN", "\x1b[32m", true},
	DarkAqua:      {"DARK_AQUA", "\x1b[36m", true},
	DarkRed:       {"DARK_RED", "\x1b[31m", true},
	DarkPurple:    {"DARK_PURPLE", "\x1b[35m", true},
	Gold:          {"GOLD", "\x1b[33m", true},
	Gray:          {"GRAY", "\x1b[37m", true},
	DarkGray:      {"DARK_GRAY", "\x1b[90m", true},
	Blue:          {"BLUE", "\x1b[94m", true},
	Green:         {"GREEN", "\x1b[92m", true},
	Aqua:          {"AQUA", "\x1b[96m", true},
	Red:           {"RED", "\x1b[91m", true},
	LightPurple:   {"LIGHT_PURPLE", "\x1b[95m", true},
	Yellow:        {"YELLOW", "\x1b[93m", true},
	White:         {"WHITE", "\x1b[97m", true},
	Magic:         {"MAGIC", "\x1b[5m", false},
	Bold:          {"BOLD", "\x1b[1m", false},
	Strikethrough: {"STRIKETHROUGH", "\x1b[9m", false},
	Underline:     {"UNDERLINE", "\x1b[4m", false},
	Italic:        {"ITALIC", "\x1b[3m", false},
	Reset:         {"RESET", resetCode, false},
}

var colorLookup = func() map[string]Color {
	lookup := make(map[string]Color, len(palette))
	for i, entry := range palette {
		lookup[entry.name] = Color(i)
	}
	return lookup
}()

func (c Color) valid() bool {
	return c >= 0 && int(c) < len(palette)
}

// Name returns the upper-case palette name, e.g. "DARK_AQUA".
func (c Color) Name() string {
	if !c.valid() {
		return ""
	}
	return palette[c].name
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Name()
}

// Code returns the ANSI escape sequence that renders the colour.
func (c Color) Code() string {
	if !c.valid() {
		return ""
	}
	return palette[c].code
}

// IsColor reports whether c is a genuine hue rather than a formatting code.
func (c Color) IsColor() bool {
	return c.valid() && palette[c].isHue
}

// DisplayName renders the colour name for humans: DARK_AQUA becomes "Dark Aqua".
func (c Color) DisplayName() string {
	words := strings.ReplaceAll(strings.ToLower(c.Name()), "_", " ")
	return cases.Title(language.English).String(words)
}

// ParseColor resolves a colour name case-insensitively. Unknown names and
// formatting modifiers report false.
func ParseColor(name string) (Color, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	c, ok := colorLookup[key]
	if !ok || !c.IsColor() {
		return 0, false
	}
	return c, true
}

// Colors returns every genuine hue in palette order.
func Colors() []Color {
	out := make([]Color, 0, len(palette))
	for i := range palette {
		if c := Color(i); c.IsColor() {
			out = append(out, c)
		}
	}
	return out
}

// ColorNames returns the lower-case names of every hue, as typed by players.
func ColorNames() []string {
	colors := Colors()
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = strings.ToLower(c.Name())
	}
	return out
}
