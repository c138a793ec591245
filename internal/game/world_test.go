package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

func newTestPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Account: name, Output: make(chan string, 32)}
}

func TestPlayerAllowCommandThrottles(t *testing.T) {
	p := &Player{}
	base := time.Now()
	for i := 0; i < commandLimit; i++ {
		if !p.allowCommand(base.Add(time.Duration(i) * (commandWindow / commandLimit))) {
			t.Fatalf("command %d should be allowed", i)
		}
	}
	if p.allowCommand(base.Add(commandWindow / 2)) {
		t.Fatalf("command should have been throttled")
	}
	if !p.allowCommand(base.Add(commandWindow + time.Millisecond)) {
		t.Fatalf("command should be allowed after window")
	}
}

func TestPlayerPermissions(t *testing.T) {
	world := NewWorld(testLogger())
	world.SetDefaultPermissions([]string{"chattags.use", "chattags.set"})
	p := newTestPlayer("p1", "Hero")
	world.AddPlayerForTest(p)
	if !p.HasPermission("chattags.set") {
		t.Fatalf("expected default permission")
	}
	if p.HasPermission("chattags.admin") {
		t.Fatalf("unexpected admin permission")
	}
	p.IsAdmin = true
	if !p.HasPermission("chattags.admin") {
		t.Fatalf("admins hold every permission")
	}
}

func TestWorldSetListName(t *testing.T) {
	world := NewWorld(testLogger())
	p := newTestPlayer("p1", "Hero")
	world.AddPlayerForTest(p)

	if err := world.SetListName(p.Identity(), "[Pro] Hero"); err != nil {
		t.Fatalf("set list name: %v", err)
	}
	if got := world.ListNames(); len(got) != 1 || got[0] != "[Pro] Hero" {
		t.Fatalf("unexpected list names: %v", got)
	}
	err := world.SetListName(tags.Identity{ID: "ghost", Name: "Ghost"}, "x")
	if !errors.Is(err, ErrPlayerOffline) {
		t.Fatalf("expected ErrPlayerOffline, got %v", err)
	}
}

func TestWorldDisplayNameWhileTagsChange(t *testing.T) {
	world := NewWorld(testLogger())
	p := newTestPlayer("p1", "Hero")
	world.AddPlayerForTest(p)
	if got := world.DisplayName(p); got != "Hero" {
		t.Fatalf("DisplayName = %q, want bare name", got)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = world.SetListName(p.Identity(), fmt.Sprintf("[%d] Hero", i))
		}
	}()
	go func() {
		defer wg.Done()
		for n := 0; n < 200; n++ {
			_ = world.DisplayName(p)
		}
	}()
	wg.Wait()

	if got := world.DisplayName(p); got != "[199] Hero" {
		t.Fatalf("DisplayName = %q, want last label", got)
	}
}

func TestWorldOnlinePlayersInLoginOrder(t *testing.T) {
	world := NewWorld(testLogger())
	world.AddPlayerForTest(newTestPlayer("a", "Alpha"))
	world.AddPlayerForTest(newTestPlayer("b", "Beta"))
	online := world.OnlinePlayers()
	if len(online) != 2 || online[0].Name != "Alpha" || online[1].ID != "b" {
		t.Fatalf("unexpected online players: %+v", online)
	}
}

func TestWorldTeamsReturnNilWhenMissing(t *testing.T) {
	world := NewWorld(testLogger())
	team, ok := world.Team("ct_missing")
	if ok || team != nil {
		t.Fatalf("expected no team, got %v %v", team, ok)
	}
	if _, err := world.RegisterTeam("ct_one"); err != nil {
		t.Fatalf("register: %v", err)
	}
	team, err := world.RegisterTeam("ct_one")
	if !errors.Is(err, ErrTeamExists) || team != nil {
		t.Fatalf("expected duplicate rejection with nil team, got %v %v", team, err)
	}
}

func TestWorldNameTagUsesTeam(t *testing.T) {
	world := NewWorld(testLogger())
	p := newTestPlayer("p1", "Hero")
	world.AddPlayerForTest(p)
	if got := world.NameTag(p); got != HighlightName("Hero") {
		t.Fatalf("expected plain highlighted name, got %q", got)
	}
	team, _ := world.RegisterTeam("ct_p1")
	_ = team.AddEntry("Hero")
	_ = team.SetPrefix("[Pro] ")
	_ = team.SetColor(tags.Gold)
	if got := world.NameTag(p); !strings.HasPrefix(got, "[Pro] "+tags.Gold.Code()+"Hero") {
		t.Fatalf("unexpected name tag: %q", got)
	}
}

func TestWorldChatLineUsesHooks(t *testing.T) {
	world := NewWorld(testLogger())
	p := newTestPlayer("p1", "Hero")
	world.AddPlayerForTest(p)
	if got := world.ChatLine(p, "hi"); got != HighlightName("Hero")+": hi" {
		t.Fatalf("unexpected chat line without hooks: %q", got)
	}
	world.AttachHooks(&recordingHooks{})
	if got := world.ChatLine(p, "hi"); got != "[Tag]"+HighlightName("Hero")+": hi" {
		t.Fatalf("unexpected chat line with hooks: %q", got)
	}
}

func TestWorldBroadcastRespectsChannels(t *testing.T) {
	world := NewWorld(testLogger())
	speaker := newTestPlayer("s", "Speaker")
	listener := newTestPlayer("l", "Listener")
	muted := newTestPlayer("m", "Muted")
	world.AddPlayerForTest(speaker)
	world.AddPlayerForTest(listener)
	world.AddPlayerForTest(muted)
	world.SetChannel(muted, ChannelOOC, false)

	world.BroadcastToAllChannel("hello", speaker, ChannelOOC)
	if len(listener.Output) != 1 {
		t.Fatalf("listener should receive the message")
	}
	if len(muted.Output) != 0 || len(speaker.Output) != 0 {
		t.Fatalf("muted player and speaker should receive nothing")
	}
}

func TestWorldAddPlayerRequiresAccount(t *testing.T) {
	world := NewWorld(testLogger())
	accounts := newTestAccounts(t)
	world.AttachAccountManager(accounts)
	if _, err := world.addPlayer("Nobody", nil, false, PlayerProfile{}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestWorldAddAndRemoveCallHooks(t *testing.T) {
	world := NewWorld(testLogger())
	accounts := newTestAccounts(t)
	if err := accounts.Register("Hero", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	world.AttachAccountManager(accounts)
	world.SetDefaultPermissions([]string{"chattags.use"})
	hooks := &recordingHooks{}
	world.AttachHooks(hooks)

	p, err := world.addPlayer("Hero", nil, false, accounts.Profile("Hero"))
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if !p.HasPermission("chattags.use") {
		t.Fatalf("expected default permissions on login")
	}
	world.removePlayer("Hero")
	connected, disconnected := hooks.counts()
	if connected != 1 || disconnected != 1 {
		t.Fatalf("expected hooks to fire once each, got %d/%d", connected, disconnected)
	}
	if hooks.disconnected[0].ID != p.ID {
		t.Fatalf("disconnect hook got %+v", hooks.disconnected[0])
	}
}

func TestWorldFindPlayerByPrefix(t *testing.T) {
	world := NewWorld(testLogger())
	world.AddPlayerForTest(newTestPlayer("a", "Alpha"))
	world.AddPlayerForTest(newTestPlayer("b", "Beta"))
	if p, ok := world.FindPlayer("alp"); !ok || p.Name != "Alpha" {
		t.Fatalf("expected prefix match for Alpha, got %v %v", p, ok)
	}
	if _, ok := world.FindPlayer("zz"); ok {
		t.Fatalf("unexpected match")
	}
}

func TestWorldFindPlayerExactIgnoresPrefixes(t *testing.T) {
	world := NewWorld(testLogger())
	world.AddPlayerForTest(newTestPlayer("a", "Alpha"))
	if _, ok := world.FindPlayerExact("alp"); ok {
		t.Fatalf("exact lookup should not resolve prefixes")
	}
	if p, ok := world.FindPlayerExact(" ALPHA "); !ok || p.Name != "Alpha" {
		t.Fatalf("expected case-insensitive match, got %v %v", p, ok)
	}
}

func TestMatchName(t *testing.T) {
	names := []string{"Alpha", "Alfred", "Al"}
	cases := []struct {
		target string
		want   int
		ok     bool
	}{
		{"alp", 0, true},
		{"alf", 1, true},
		{"al", 2, true},
		{"a", -1, false},
		{"zed", -1, false},
		{"  ", -1, false},
	}
	for _, tc := range cases {
		got, ok := matchName(tc.target, names)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("matchName(%q) = %d/%v, want %d/%v", tc.target, got, ok, tc.want, tc.ok)
		}
	}
}
