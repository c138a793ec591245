package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"
)

// Dispatcher executes a command for the connected player.
// Returning true indicates the connection should terminate.
type Dispatcher func(*World, *Player, string) bool

var netListenFunc = net.Listen

const (
	greetingLine = "Voices drift in from every corner of the lounge."
	greetingHint = "Type 'help' to learn the essentials or 'tag help' to craft your chat tag."
	farewellLine = "The chatter fades behind you."
)

func notice(msg string, codes ...string) string {
	return Ansi("\r\n" + Style(msg, codes...))
}

// claimSession resolves a second login for a name that is already playing.
// It reports whether the new connection may continue.
func claimSession(session *TelnetSession, world *World, username string) bool {
	for {
		if _, ok := world.ActivePlayer(username); !ok {
			return true
		}
		_ = session.WriteString(notice("Another session for "+HighlightName(username)+" is already active.", AnsiYellow))
		answer, err := ask(session, "Take over the existing session? (yes/no): ")
		if err != nil {
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			oldSession, oldOutput, ok := world.PrepareTakeover(username)
			if !ok {
				continue
			}
			if oldOutput != nil {
				select {
				case oldOutput <- notice("Your connection has been claimed from another location.\r\n", AnsiYellow):
				default:
				}
				close(oldOutput)
			}
			if oldSession != nil {
				_ = oldSession.Close()
			}
			_ = session.WriteString(notice("Previous connection released.\r\n", AnsiGreen))
		case "n", "no":
			_ = session.WriteString(notice("Maintaining the existing session.\r\n", AnsiYellow))
			return false
		default:
			warn(session, "Please respond with 'yes' or 'no'.")
		}
	}
}

func greet(world *World, p *Player, stats AccountStats) {
	p.Output <- Ansi("\r\n" + Style(greetingLine, AnsiMagenta, AnsiBold) + "\r\n")
	welcome := "Welcome, " + HighlightName(p.Name) + Style("!", AnsiMagenta)
	if stats.TotalLogins > 1 {
		welcome += Style(fmt.Sprintf(" This is visit number %d.", stats.TotalLogins), AnsiDim)
	}
	p.Output <- Ansi(welcome + "\r\n")
	p.Output <- Ansi(Style(greetingHint+"\r\n", AnsiGreen))
	world.Broadcast(Ansi("\r\n"+world.NameTag(p)+" joins the conversation."), p)
	p.Output <- Prompt(p)
}

// commandLoop feeds input lines to dispatcher until the client leaves or a
// command asks to end the session.
func commandLoop(session *TelnetSession, world *World, p *Player, dispatcher Dispatcher) {
	for {
		line, err := session.ReadLine()
		if err != nil {
			return
		}
		line = Trim(line)
		switch {
		case line == "":
		case !p.allowCommand(time.Now()):
			p.Output <- notice("You are sending commands too quickly. Please wait.", AnsiYellow)
		case !p.Alive:
			return
		default:
			if dispatcher(world, p, line) {
				return
			}
		}
		p.Output <- Prompt(p)
	}
}

func farewell(world *World, p *Player) {
	p.Output <- Ansi("\r\n" + Style(farewellLine, AnsiMagenta, AnsiBold) + "\r\n")
	p.Output <- Ansi("Until next time, " + HighlightName(p.Name) + Style(".\r\n", AnsiMagenta))
	p.Alive = false
	world.Broadcast(Ansi("\r\n"+world.NameTag(p)+" leaves."), p)
	world.PersistPlayer(p)
	world.removePlayer(p.Name)
}

func handleConn(conn net.Conn, world *World, accounts *AccountManager, dispatcher Dispatcher) {
	session := NewTelnetSession(conn)
	defer session.Close()
	logger := world.logger.With("remote", conn.RemoteAddr().String())

	username, isAdmin, err := login(session, accounts)
	if err != nil {
		logger.Debug("login aborted", "error", err)
		return
	}
	if !claimSession(session, world, username) {
		return
	}

	p, err := world.addPlayer(username, session, isAdmin, accounts.Profile(username))
	if err != nil {
		_ = session.WriteString(notice(err.Error()+"\r\n", AnsiYellow))
		return
	}
	logger.Info("player connected", "player", username, "charset", session.Charset(), "terminal", session.Terminal())
	if err := accounts.RecordLogin(username, time.Now().UTC()); err != nil {
		logger.Warn("failed to record login", "player", username, "error", err)
	}
	stats, _ := accounts.Stats(username)

	go func(output <-chan string) {
		for out := range output {
			_ = session.WriteString(out)
		}
	}(p.Output)

	greet(world, p, stats)
	_ = conn.SetReadDeadline(time.Time{})
	commandLoop(session, world, p, dispatcher)

	// A takeover swapped the session out from under us; the new connection
	// owns the player now.
	if p.Session != session {
		return
	}
	farewell(world, p)
	logger.Info("player disconnected", "player", username)
}

// ListenAndServe accepts telnet connections on addr until ctx is cancelled.
// The dispatcher executes player commands. Cancellation closes the listener
// and returns nil; any other listener failure is returned.
func ListenAndServe(ctx context.Context, addr string, world *World, accounts *AccountManager, dispatcher Dispatcher) error {
	switch {
	case dispatcher == nil:
		return errors.New("dispatcher must not be nil")
	case world == nil || accounts == nil:
		return errors.New("world and accounts must not be nil")
	}
	world.AttachAccountManager(accounts)

	ln, err := netListenFunc("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	world.logger.Info("chat server listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer ln.Close()

	err = acceptConnections(ln, world.logger, func(conn net.Conn) {
		go handleConn(conn, world, accounts, dispatcher)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

const (
	acceptBackoffStart = 50 * time.Millisecond
	acceptBackoffMax   = time.Second
)

var acceptSleep = time.Sleep

// acceptConnections hands each accepted conn to handle. Temporary failures
// are retried with a doubling delay capped at acceptBackoffMax.
func acceptConnections(ln net.Listener, logger *slog.Logger, handle func(net.Conn)) error {
	backoff := acceptBackoffStart
	for {
		conn, err := ln.Accept()
		if err == nil {
			backoff = acceptBackoffStart
			handle(conn)
			continue
		}
		if !isTemporaryAcceptError(err) {
			return err
		}
		logger.Warn("temporary error accepting connection", "error", err, "retry_in", backoff)
		acceptSleep(backoff)
		backoff = min(backoff*2, acceptBackoffMax)
	}
}

func isTemporaryAcceptError(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && (ne.Timeout() || ne.Temporary())
}
