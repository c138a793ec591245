package tags

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTeamNameLimit is the longest team key the host accepts.
const DefaultTeamNameLimit = 16

type managerOptions struct {
	rules         Rules
	logger        *slog.Logger
	teamNameLimit int
	now           func() time.Time
}

// Option customises a Manager.
type Option func(*managerOptions)

// WithRules overrides the validation and cooldown settings.
func WithRules(rules Rules) Option {
	return func(opts *managerOptions) {
		opts.rules = rules
	}
}

// WithLogger sets the logger used for persistence and host warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *managerOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithTeamNameLimit overrides the maximum team key length.
func WithTeamNameLimit(limit int) Option {
	return func(opts *managerOptions) {
		if limit > 0 {
			opts.teamNameLimit = limit
		}
	}
}

// WithClock replaces the time source used by the cooldown tracker.
func WithClock(now func() time.Time) Option {
	return func(opts *managerOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

// Manager owns every tag record. Mutations validate, update the record,
// refresh the player's presentation and persist the full set.
type Manager struct {
	mu      sync.Mutex
	records map[string]Record

	saveMu sync.Mutex

	rules         Rules
	cooldowns     *Cooldowns
	store         Storage
	host          Host
	logger        *slog.Logger
	teamNameLimit int
}

// NewManager builds a manager persisting through store and presenting through
// host. Either may be nil, in which case that concern is skipped.
func NewManager(store Storage, host Host, opts ...Option) (*Manager, error) {
	options := managerOptions{
		rules:         DefaultRules(),
		logger:        slog.Default(),
		teamNameLimit: DefaultTeamNameLimit,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	rules, err := options.rules.Compile()
	if err != nil {
		return nil, err
	}
	if rules.MinLength > rules.MaxLength {
		return nil, fmt.Errorf("min length %d exceeds max length %d", rules.MinLength, rules.MaxLength)
	}
	cooldowns := NewCooldowns(rules.Cooldown)
	cooldowns.now = options.now
	return &Manager{
		records:       make(map[string]Record),
		rules:         rules,
		cooldowns:     cooldowns,
		store:         store,
		host:          host,
		logger:        options.logger,
		teamNameLimit: options.teamNameLimit,
	}, nil
}

// Rules returns the active validation settings.
func (m *Manager) Rules() Rules {
	return m.rules
}

// Get returns the record for id, creating the default record on first use.
func (m *Manager) Get(id string) Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *Manager) getLocked(id string) Record {
	rec, ok := m.records[id]
	if !ok {
		rec = NewRecord()
		m.records[id] = rec
	}
	return rec
}

func (m *Manager) update(id string, fn func(*Record)) Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.getLocked(id)
	fn(&rec)
	m.records[id] = rec
	return rec
}

// SetText validates text and, when it passes, stores it and enables the tag.
func (m *Manager) SetText(player Identity, text string) error {
	if err := ValidateText(text, m.rules); err != nil {
		return err
	}
	m.update(player.ID, func(rec *Record) {
		rec.Text = text
		rec.Enabled = true
	})
	m.ApplyAppearance(player)
	m.cooldowns.MarkChanged(player.ID)
	m.persist()
	return nil
}

// SetColor stores a new tag colour. Formatting codes are rejected.
func (m *Manager) SetColor(player Identity, color Color) error {
	if err := ValidateColor(color); err != nil {
		return err
	}
	m.update(player.ID, func(rec *Record) {
		rec.Color = color
	})
	m.ApplyAppearance(player)
	m.cooldowns.MarkChanged(player.ID)
	m.persist()
	return nil
}

// Toggle flips whether the tag is shown and returns the new state. It does
// not count against the cooldown.
func (m *Manager) Toggle(player Identity) bool {
	rec := m.update(player.ID, func(rec *Record) {
		rec.Enabled = !rec.Enabled
	})
	m.ApplyAppearance(player)
	m.persist()
	return rec.Enabled
}

// Clear removes the tag text and disables the tag.
func (m *Manager) Clear(player Identity) {
	m.update(player.ID, func(rec *Record) {
		rec.Text = ""
		rec.Enabled = false
	})
	m.ApplyAppearance(player)
	m.cooldowns.MarkChanged(player.ID)
	m.persist()
}

// ClearAll wipes every record that shows or holds a tag and returns how many
// changed.
func (m *Manager) ClearAll() int {
	return m.bulk(func(rec *Record) bool {
		if rec.Text == "" && !rec.Enabled {
			return false
		}
		rec.Text = ""
		rec.Enabled = false
		return true
	})
}

// DisableAll hides every enabled tag, keeping its text, and returns how many
// changed.
func (m *Manager) DisableAll() int {
	return m.bulk(func(rec *Record) bool {
		if !rec.Enabled {
			return false
		}
		rec.Enabled = false
		return true
	})
}

func (m *Manager) bulk(fn func(*Record) bool) int {
	m.mu.Lock()
	count := 0
	for id, rec := range m.records {
		if fn(&rec) {
			m.records[id] = rec
			count++
		}
	}
	m.mu.Unlock()
	m.persist()
	m.SyncOnline()
	return count
}

// CanChange reports whether the player may change their tag now.
func (m *Manager) CanChange(id string, exempt bool) bool {
	return m.cooldowns.CanChange(id, exempt)
}

// RemainingSeconds reports how long the player must wait before changing again.
func (m *Manager) RemainingSeconds(id string) int {
	return m.cooldowns.RemainingSeconds(id)
}

// Snapshot returns a copy of every known record keyed by player id.
func (m *Manager) Snapshot() map[string]Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Record, len(m.records))
	for id, rec := range m.records {
		out[id] = rec
	}
	return out
}

// Load replaces the in-memory records with the persisted ones. Entries with a
// malformed identity or an unknown colour are skipped with a warning; only a
// failure to read the store as a whole is returned.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	entries, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	loaded := make(map[string]Record, len(entries))
	for _, entry := range entries {
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			m.logger.Warn("invalid data for player", "player", entry.ID, "error", err)
			continue
		}
		color, ok := ParseColor(entry.Color)
		if !ok {
			m.logger.Warn("invalid data for player", "player", entry.ID, "color", entry.Color)
			continue
		}
		loaded[id.String()] = Record{Text: entry.Text, Color: color, Enabled: entry.Enabled}
	}
	m.mu.Lock()
	m.records = loaded
	m.mu.Unlock()
	m.logger.Info("loaded player tags", "count", len(loaded))
	return nil
}

// Save writes every record to the store. Saves never interleave.
func (m *Manager) Save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if err := m.store.Save(ctx, m.entries()); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func (m *Manager) entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.records))
	for id, rec := range m.records {
		out = append(out, Entry{
			ID:      id,
			Text:    rec.Text,
			Color:   rec.Color.Name(),
			Enabled: rec.Enabled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Manager) persist() {
	if err := m.Save(context.Background()); err != nil {
		m.logger.Error("could not persist player tags", "error", err)
	}
}
