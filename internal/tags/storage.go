package tags

import "context"

// Entry is the persisted form of one record. Colour and identity are kept as
// raw strings so that a damaged entry can be reported and skipped on load.
type Entry struct {
	ID      string
	Text    string
	Color   string
	Enabled bool
}

// Storage persists the full set of records at once.
type Storage interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Close() error
}
