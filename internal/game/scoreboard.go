package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

// MaxTeamNameLength bounds team names, matching what clients render.
const MaxTeamNameLength = 16

var (
	ErrTeamExists       = errors.New("team already registered")
	ErrTeamUnregistered = errors.New("team is no longer registered")
)

// Scoreboard holds the teams that decorate player names. An entry belongs to
// at most one team at a time.
type Scoreboard struct {
	mu      sync.RWMutex
	teams   map[string]*Team
	entries map[string]*Team
}

// Team colours and prefixes the in-world name of each entry.
type Team struct {
	board      *Scoreboard
	name       string
	color      tags.Color
	prefix     string
	entries    map[string]struct{}
	registered bool
}

// NewScoreboard returns an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		teams:   make(map[string]*Team),
		entries: make(map[string]*Team),
	}
}

// RegisterTeam creates a team. Names must be unique and short.
func (s *Scoreboard) RegisterTeam(name string) (*Team, error) {
	if name == "" || len(name) > MaxTeamNameLength {
		return nil, fmt.Errorf("team name %q must be 1-%d characters", name, MaxTeamNameLength)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[name]; ok {
		return nil, fmt.Errorf("%s: %w", name, ErrTeamExists)
	}
	team := &Team{
		board:      s,
		name:       name,
		color:      tags.White,
		entries:    make(map[string]struct{}),
		registered: true,
	}
	s.teams[name] = team
	return team, nil
}

// Team looks up a registered team.
func (s *Scoreboard) Team(name string) (*Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[name]
	return team, ok
}

// EntryTeam returns the team the entry belongs to.
func (s *Scoreboard) EntryTeam(entry string) (*Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.entries[entry]
	return team, ok
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) Color() tags.Color {
	t.board.mu.RLock()
	defer t.board.mu.RUnlock()
	return t.color
}

func (t *Team) Prefix() string {
	t.board.mu.RLock()
	defer t.board.mu.RUnlock()
	return t.prefix
}

func (t *Team) SetColor(color tags.Color) error {
	if !color.IsColor() {
		return fmt.Errorf("team colour %s: %w", color, tags.ErrInvalidColor)
	}
	t.board.mu.Lock()
	defer t.board.mu.Unlock()
	if !t.registered {
		return ErrTeamUnregistered
	}
	t.color = color
	return nil
}

func (t *Team) SetPrefix(prefix string) error {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()
	if !t.registered {
		return ErrTeamUnregistered
	}
	t.prefix = prefix
	return nil
}

// AddEntry moves entry into the team, leaving any team it was in before.
func (t *Team) AddEntry(entry string) error {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()
	if !t.registered {
		return ErrTeamUnregistered
	}
	if previous, ok := t.board.entries[entry]; ok && previous != t {
		delete(previous.entries, entry)
	}
	t.entries[entry] = struct{}{}
	t.board.entries[entry] = t
	return nil
}

func (t *Team) HasEntry(entry string) bool {
	t.board.mu.RLock()
	defer t.board.mu.RUnlock()
	_, ok := t.entries[entry]
	return ok
}

func (t *Team) RemoveEntry(entry string) error {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()
	if _, ok := t.entries[entry]; !ok {
		return fmt.Errorf("%s is not on team %s", entry, t.name)
	}
	delete(t.entries, entry)
	if t.board.entries[entry] == t {
		delete(t.board.entries, entry)
	}
	return nil
}

func (t *Team) Empty() bool {
	t.board.mu.RLock()
	defer t.board.mu.RUnlock()
	return len(t.entries) == 0
}

// Unregister removes the team and releases its entries.
func (t *Team) Unregister() error {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()
	if !t.registered {
		return ErrTeamUnregistered
	}
	for entry := range t.entries {
		if t.board.entries[entry] == t {
			delete(t.board.entries, entry)
		}
	}
	t.entries = make(map[string]struct{})
	t.registered = false
	delete(t.board.teams, t.name)
	return nil
}

// Decorate renders name with the team's colour and prefix.
func (t *Team) Decorate(name string) string {
	t.board.mu.RLock()
	defer t.board.mu.RUnlock()
	return t.prefix + t.color.Code() + name + AnsiReset
}
