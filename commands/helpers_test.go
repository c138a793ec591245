package commands

import (
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Johann-FullHD/ChatTags/internal/game"
	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

var playerPermissions = []string{
	"chattags.use",
	"chattags.set",
	"chattags.color",
	"chattags.toggle",
	"chattags.clear",
}

type testServer struct {
	world    *game.World
	tags     *tags.Manager
	dispatch game.Dispatcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	world := game.NewWorld(logger)
	world.SetDefaultPermissions(playerPermissions)
	rules := tags.DefaultRules()
	rules.Cooldown = time.Minute
	manager, err := tags.NewManager(nil, world, tags.WithRules(rules), tags.WithLogger(logger))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	world.AttachHooks(manager)
	return &testServer{world: world, tags: manager, dispatch: NewDispatcher(manager)}
}

func (s *testServer) join(name string) *game.Player {
	p := newTestPlayer(name)
	s.world.AddPlayerForTest(p)
	return p
}

func (s *testServer) joinAdmin(name string) *game.Player {
	p := newTestPlayer(name)
	p.IsAdmin = true
	s.world.AddPlayerForTest(p)
	return p
}

func (s *testServer) run(t *testing.T, p *game.Player, line string) string {
	t.Helper()
	if done := s.dispatch(s.world, p, line); done {
		t.Fatalf("dispatch %q returned true, want false", line)
	}
	return strings.Join(drainOutput(p.Output), "\n")
}

func newTestPlayer(name string) *game.Player {
	return &game.Player{
		ID:       uuid.NewString(),
		Name:     name,
		Account:  name,
		Output:   make(chan string, 32),
		Alive:    true,
		Channels: game.DefaultChannelSettings(),
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func drainOutput(ch chan string) []string {
	t := make([]string, 0)
	for {
		select {
		case msg := <-ch:
			cleaned := game.Trim(ansiPattern.ReplaceAllString(msg, ""))
			if cleaned != "" {
				t = append(t, cleaned)
			}
		default:
			return t
		}
	}
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output = %q, want substring %q", output, want)
	}
}
