package tags

import "errors"

var (
	// ErrInvalidText is returned when tag text breaks the length or character rules.
	ErrInvalidText = errors.New("invalid tag text")
	// ErrInvalidColor is returned for formatting codes or unknown palette entries.
	ErrInvalidColor = errors.New("invalid tag color")
	// ErrPlayerNotFound is returned when an administrative target is not online.
	ErrPlayerNotFound = errors.New("player not found")
)
