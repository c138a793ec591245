package tags

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errDuplicateTeam = errors.New("team already registered")

type fakeTeam struct {
	host         *fakeHost
	key          string
	color        Color
	prefix       string
	entries      map[string]bool
	unregistered bool
	panicOnRead  bool
}

func (t *fakeTeam) SetColor(c Color) error { t.color = c; return nil }

func (t *fakeTeam) SetPrefix(p string) error { t.prefix = p; return nil }

func (t *fakeTeam) AddEntry(name string) error { t.entries[name] = true; return nil }

func (t *fakeTeam) HasEntry(name string) bool { return t.entries[name] }

func (t *fakeTeam) RemoveEntry(name string) error {
	if t.panicOnRead {
		panic("team storage corrupted")
	}
	delete(t.entries, name)
	return nil
}

func (t *fakeTeam) Empty() bool { return len(t.entries) == 0 }

func (t *fakeTeam) Unregister() error {
	t.unregistered = true
	delete(t.host.teams, t.key)
	return nil
}

type fakeHost struct {
	online       []Identity
	listNames    map[string]string
	teams        map[string]*fakeTeam
	lookupMisses int
	rejectPrefix bool
}

func newFakeHost(online ...Identity) *fakeHost {
	return &fakeHost{
		online:    online,
		listNames: make(map[string]string),
		teams:     make(map[string]*fakeTeam),
	}
}

func (h *fakeHost) OnlinePlayers() []Identity { return h.online }

func (h *fakeHost) SetListName(player Identity, name string) error {
	if h.rejectPrefix && name != player.Name {
		return errors.New("list name too long")
	}
	h.listNames[player.ID] = name
	return nil
}

func (h *fakeHost) Team(key string) (Team, bool) {
	if h.lookupMisses > 0 {
		h.lookupMisses--
		return nil, false
	}
	team, ok := h.teams[key]
	if !ok {
		return nil, false
	}
	return team, true
}

func (h *fakeHost) RegisterTeam(key string) (Team, error) {
	if _, ok := h.teams[key]; ok {
		return nil, errDuplicateTeam
	}
	team := &fakeTeam{host: h, key: key, color: White, entries: make(map[string]bool)}
	h.teams[key] = team
	return team, nil
}

type memoryStore struct {
	entries []Entry
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryStore) Load(ctx context.Context) ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]Entry(nil), s.entries...), nil
}

func (s *memoryStore) Save(ctx context.Context, entries []Entry) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries = append([]Entry(nil), entries...)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPlayer(name string) Identity {
	return Identity{ID: uuid.NewString(), Name: name}
}

func newTestManager(t *testing.T, store Storage, host Host) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	m, err := NewManager(store, host, WithLogger(quietLogger()), WithClock(clock.Now))
	require.NoError(t, err)
	return m, clock
}
