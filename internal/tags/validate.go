package tags

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// DefaultAllowedPattern accepts letters, digits, underscores and whitespace.
const DefaultAllowedPattern = `[a-zA-Z0-9_\s]+`

// Rules holds the validation and rate-limit settings injected into the core.
type Rules struct {
	MinLength      int
	MaxLength      int
	AllowedPattern string
	Cooldown       time.Duration

	allowed *regexp.Regexp
}

// DefaultRules mirrors the stock configuration.
func DefaultRules() Rules {
	r := Rules{
		MinLength:      1,
		MaxLength:      16,
		AllowedPattern: DefaultAllowedPattern,
		Cooldown:       30 * time.Second,
	}
	r.allowed = regexp.MustCompile(anchor(DefaultAllowedPattern))
	return r
}

// Compile prepares the allowed pattern. The pattern must match the whole text,
// so it is anchored at both ends.
func (r Rules) Compile() (Rules, error) {
	pattern := r.AllowedPattern
	if pattern == "" {
		pattern = DefaultAllowedPattern
	}
	re, err := regexp.Compile(anchor(pattern))
	if err != nil {
		return r, fmt.Errorf("compile allowed pattern: %w", err)
	}
	r.AllowedPattern = pattern
	r.allowed = re
	return r, nil
}

func anchor(pattern string) string {
	return `^(?:` + pattern + `)$`
}

// ValidateText checks text against the length bounds and allowed pattern.
// Length is counted in runes.
func ValidateText(text string, rules Rules) error {
	length := utf8.RuneCountInString(text)
	if length < rules.MinLength || length > rules.MaxLength {
		return fmt.Errorf("%w: must be %d-%d characters", ErrInvalidText, rules.MinLength, rules.MaxLength)
	}
	re := rules.allowed
	if re == nil {
		compiled, err := rules.Compile()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		re = compiled.allowed
	}
	if !re.MatchString(text) {
		return fmt.Errorf("%w: contains characters that are not allowed", ErrInvalidText)
	}
	return nil
}

// ValidateColor rejects formatting modifiers and out-of-palette values.
func ValidateColor(c Color) error {
	if !c.valid() {
		return fmt.Errorf("%w: unknown palette entry %d", ErrInvalidColor, int(c))
	}
	if !c.IsColor() {
		return fmt.Errorf("%w: %s is a formatting code", ErrInvalidColor, c.Name())
	}
	return nil
}
