package commands

import (
	"strings"
	"testing"
)

func TestDispatchUnknownCommand(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	assertContains(t, srv.run(t, hero, "dance wildly"), "Unknown command. Type 'help'.")
	if out := srv.run(t, hero, "   "); out != "" {
		t.Fatalf("blank line produced output %q", out)
	}
}

func TestSayIncludesSpeakerTag(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	listener := srv.join("Listener")
	srv.run(t, hero, "tag set VIP")

	assertContains(t, srv.run(t, hero, "say hello there"), "[VIP]Hero: hello there")
	assertContains(t, strings.Join(drainOutput(listener.Output), "\n"), "[VIP]Hero: hello there")

	srv.run(t, listener, "say hi")
	assertContains(t, strings.Join(drainOutput(hero.Output), "\n"), "Listener: hi")
}

func TestSayRespectsChannelFilter(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	listener := srv.join("Listener")

	assertContains(t, srv.run(t, listener, "channel say off"), "SAY channel OFF.")
	srv.run(t, hero, "say anyone?")
	if msgs := drainOutput(listener.Output); len(msgs) != 0 {
		t.Fatalf("muted listener received %v", msgs)
	}
	assertContains(t, srv.run(t, hero, "say"), "Say what?")
}

func TestOOCUsesOwnChannel(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	listener := srv.join("Listener")
	srv.run(t, listener, "channel say off")

	assertContains(t, srv.run(t, hero, "ooc brb"), "[OOC] Hero: brb")
	assertContains(t, strings.Join(drainOutput(listener.Output), "\n"), "[OOC] Hero: brb")
}

func TestEmoteUsesNameTag(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	listener := srv.join("Listener")
	srv.run(t, hero, "tag set VIP")

	assertContains(t, srv.run(t, hero, "emote waves"), "You waves")
	assertContains(t, strings.Join(drainOutput(listener.Output), "\n"), "[VIP] Hero waves")
}

func TestWhoShowsListNames(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	watcher := srv.join("Watcher")

	assertContains(t, srv.run(t, hero, "who"), "Also online: Watcher")
	srv.run(t, hero, "tag set VIP")
	assertContains(t, srv.run(t, watcher, "who"), "Also online: [VIP] Hero")
}

func TestWhoAlone(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Solo")
	assertContains(t, srv.run(t, hero, "who"), "You are the only one online.")
}

func TestLookListsOthers(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	assertContains(t, srv.run(t, hero, "look"), "Nobody else is here.")

	watcher := srv.join("Watcher")
	srv.run(t, watcher, "tag set Fan")
	assertContains(t, srv.run(t, hero, "l"), "Also here: [Fan] Watcher")
}

func TestChannelStatus(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	srv.run(t, hero, "channel ooc off")

	out := srv.run(t, hero, "channel")
	fields := strings.Join(strings.Fields(out), " ")
	assertContains(t, fields, "SAY ON OOC OFF")
	assertContains(t, srv.run(t, hero, "channel shout on"), "Unknown channel.")
	assertContains(t, srv.run(t, hero, "channel say"), "Usage: channel <name> <on|off>")
}

func TestHelpListsGroups(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	admin := srv.joinAdmin("Admin")

	out := srv.run(t, hero, "help")
	assertContains(t, out, "Commands:")
	assertContains(t, out, "say <message>")
	if strings.Contains(out, "tagsave") {
		t.Fatalf("admin commands shown to player: %q", out)
	}
	assertContains(t, srv.run(t, admin, "?"), "Admin commands:")
}

func TestHelpDescribesCommand(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	admin := srv.joinAdmin("Admin")

	out := srv.run(t, hero, "help emote")
	assertContains(t, out, "emote <action>")
	assertContains(t, out, "Aliases: :")
	assertContains(t, srv.run(t, hero, "help tagsave"), "No help for 'tagsave'.")
	assertContains(t, srv.run(t, admin, "help TAGSAVE"), "write every chat tag to storage now")
}

func TestQuitEndsSession(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	if done := srv.dispatch(srv.world, hero, "quit"); !done {
		t.Fatalf("quit should end the session")
	}
	assertContains(t, strings.Join(drainOutput(hero.Output), "\n"), "Goodbye.")
}

func TestCompleteCommand(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	admin := srv.joinAdmin("Admin")

	out := srv.run(t, hero, "complete ta")
	if out != "tag" {
		t.Fatalf("player completion = %q, want tag", out)
	}
	assertContains(t, srv.run(t, admin, "complete ta"), "tagsave")
	assertContains(t, srv.run(t, hero, "complete tag col"), "color")
	assertContains(t, srv.run(t, hero, "complete zzz"), "No suggestions.")
}

func TestTagSaveIsAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	admin := srv.joinAdmin("Admin")

	assertContains(t, srv.run(t, hero, "tagsave"), "Only admins may save tags.")
	assertContains(t, srv.run(t, admin, "tagsave"), "Tags saved.")
}

func TestChannelCompletion(t *testing.T) {
	srv := newTestServer(t)
	hero := srv.join("Hero")
	ctx := &Context{World: srv.world, Player: hero, Tags: srv.tags}

	if got := strings.Join(Complete(ctx, "channel o"), ","); got != "ooc" {
		t.Fatalf("channel completion = %q", got)
	}
	if got := strings.Join(Complete(ctx, "channel ooc o"), ","); got != "on,off" {
		t.Fatalf("switch completion = %q", got)
	}
}
