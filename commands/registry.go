package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/Johann-FullHD/ChatTags/internal/game"
	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

// CommandGroup decides which help listing a command appears in.
type CommandGroup int

const (
	GroupGeneral CommandGroup = iota
	GroupAdmin
)

// Completer returns candidates for the last word of args. args holds the
// words typed after the command name; the last one may be empty.
type Completer func(ctx *Context, args []string) []string

// Definition describes a single command's metadata.
type Definition struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Group       CommandGroup
	Complete    Completer
}

// Handler executes a command.
// Returning true indicates the connection should terminate.
type Handler func(*Context) bool

// Command couples metadata with the executable handler.
type Command struct {
	Definition
	Handler Handler
}

// Context provides the runtime data available to a command handler.
type Context struct {
	World   *game.World
	Player  *game.Player
	Tags    *tags.Manager
	Raw     string
	Arg     string
	Input   string
	Command *Command
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Command)
	ordered    []*Command
)

// Define registers a command under its name and aliases and returns it.
// Definitions are made at package init, so bad metadata panics.
func Define(def Definition, handler Handler) *Command {
	switch {
	case handler == nil:
		panic("commands: handler must not be nil")
	case strings.TrimSpace(def.Name) == "":
		panic("commands: command must have a name")
	}
	cmd := &Command{Definition: def, Handler: handler}

	registryMu.Lock()
	defer registryMu.Unlock()
	for _, name := range append([]string{def.Name}, def.Aliases...) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, taken := registry[key]; taken {
			panic(fmt.Sprintf("commands: duplicate registration for %q", name))
		}
		registry[key] = cmd
	}

	at, _ := slices.BinarySearchFunc(ordered, def.Name, func(c *Command, name string) int {
		return strings.Compare(c.Name, name)
	})
	ordered = slices.Insert(ordered, at, cmd)
	return cmd
}

// All returns the registered commands sorted by primary name.
func All() []*Command {
	registryMu.RLock()
	defer registryMu.RUnlock()

	return slices.Clone(ordered)
}

// Find resolves a command by name or alias.
func Find(name string) (*Command, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cmd, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return cmd, ok
}

// NewDispatcher returns a dispatcher that runs commands with access to the
// tag manager.
func NewDispatcher(manager *tags.Manager) game.Dispatcher {
	return func(world *game.World, player *game.Player, line string) bool {
		return dispatch(world, player, manager, line)
	}
}

func dispatch(world *game.World, player *game.Player, manager *tags.Manager, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	name, arg := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		name, arg = trimmed[:i], strings.TrimSpace(trimmed[i:])
	}

	cmd, ok := Find(name)
	if !ok {
		player.Output <- game.Ansi("\r\nUnknown command. Type 'help'.")
		return false
	}
	return cmd.Handler(&Context{
		World:   world,
		Player:  player,
		Tags:    manager,
		Raw:     line,
		Arg:     arg,
		Input:   name,
		Command: cmd,
	})
}

// filterPrefix keeps the candidates starting with prefix, ignoring case.
func filterPrefix(candidates []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	return slices.DeleteFunc(slices.Clone(candidates), func(candidate string) bool {
		return !strings.HasPrefix(strings.ToLower(candidate), prefix)
	})
}
