package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

// ErrPlayerOffline is returned when a presentation change targets a player
// who is not connected.
var ErrPlayerOffline = errors.New("player is not online")

// TagHooks receives player lifecycle events and formats chat prefixes.
type TagHooks interface {
	OnPlayerConnect(tags.Identity)
	OnPlayerDisconnect(tags.Identity)
	OnFormatChatPrefix(tags.Identity) string
}

// World tracks connected players and the presentation surfaces shown to them:
// list names in player listings and scoreboard teams on in-world names.
type World struct {
	mu                 sync.RWMutex
	players            map[string]*Player
	playerOrder        []string
	accounts           *AccountManager
	scoreboard         *Scoreboard
	hooks              TagHooks
	forceAllAdmin      bool
	defaultPermissions []string
	logger             *slog.Logger
}

// NewWorld returns an empty world.
func NewWorld(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		players:    make(map[string]*Player),
		scoreboard: NewScoreboard(),
		logger:     logger,
	}
}

// ConfigurePrivileges grants every player administrator rights when
// forceAllAdmin is set.
func (w *World) ConfigurePrivileges(forceAllAdmin bool) {
	w.mu.Lock()
	w.forceAllAdmin = forceAllAdmin
	w.mu.Unlock()
}

// SetDefaultPermissions sets the capabilities granted to every player on login.
func (w *World) SetDefaultPermissions(perms []string) {
	w.mu.Lock()
	w.defaultPermissions = append([]string(nil), perms...)
	w.mu.Unlock()
}

func (w *World) AttachAccountManager(accounts *AccountManager) {
	w.mu.Lock()
	w.accounts = accounts
	w.mu.Unlock()
}

// AttachHooks installs the tag lifecycle hooks.
func (w *World) AttachHooks(hooks TagHooks) {
	w.mu.Lock()
	w.hooks = hooks
	w.mu.Unlock()
}

func (w *World) tagHooks() TagHooks {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.hooks
}

// Scoreboard exposes the team registry.
func (w *World) Scoreboard() *Scoreboard {
	return w.scoreboard
}

// AddPlayerForTest registers a player without a network session.
func (w *World) AddPlayerForTest(p *Player) {
	w.mu.Lock()
	if w.players == nil {
		w.players = make(map[string]*Player)
	}
	if p.Output == nil {
		p.Output = make(chan string, 32)
	}
	if p.Channels == nil {
		p.Channels = DefaultChannelSettings()
	}
	if p.Permissions == nil {
		p.Permissions = permissionSet(w.defaultPermissions)
	}
	p.Alive = true
	w.players[p.Name] = p
	w.removePlayerOrderLocked(p.Name)
	w.playerOrder = append(w.playerOrder, p.Name)
	w.mu.Unlock()
}

// ActivePlayer returns the currently connected player with the provided name.
// The second return value reports whether a living session was found.
func (w *World) ActivePlayer(name string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[name]
	if !ok || !p.Alive {
		return nil, false
	}
	return p, true
}

// PrepareTakeover detaches the active session for the provided player so that
// another connection can assume control. It returns the previous session and
// output channel so the caller can notify and close them.
func (w *World) PrepareTakeover(name string) (*TelnetSession, chan string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	existing, ok := w.players[name]
	if !ok || !existing.Alive {
		return nil, nil, false
	}

	oldSession := existing.Session
	oldOutput := existing.Output
	existing.Session = nil
	existing.Output = nil
	existing.Alive = false
	w.removePlayerOrderLocked(name)

	return oldSession, oldOutput, true
}

func (w *World) addPlayer(name string, session *TelnetSession, isAdmin bool, profile PlayerProfile) (*Player, error) {
	channels := profile.Channels
	if channels == nil {
		channels = DefaultChannelSettings()
	}

	w.mu.Lock()
	if w.forceAllAdmin {
		isAdmin = true
	}
	id := ""
	if w.accounts != nil {
		id, _ = w.accounts.ID(name)
	}
	if id == "" {
		w.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", name, ErrAccountNotFound)
	}
	p, ok := w.players[name]
	if ok && p.Alive {
		w.mu.Unlock()
		return nil, fmt.Errorf("%s is already connected", name)
	}
	if !ok {
		p = &Player{Name: name}
		w.players[name] = p
	}
	p.ID = id
	p.Account = name
	p.Session = session
	p.Output = make(chan string, 32)
	p.Alive = true
	p.IsAdmin = isAdmin
	p.Permissions = permissionSet(w.defaultPermissions)
	p.Channels = cloneChannelSettings(channels)
	p.listName = ""
	p.JoinedAt = time.Now()
	w.removePlayerOrderLocked(name)
	w.playerOrder = append(w.playerOrder, name)
	hooks := w.hooks
	w.mu.Unlock()

	if hooks != nil {
		hooks.OnPlayerConnect(p.Identity())
	}
	return p, nil
}

func (w *World) removePlayer(name string) {
	w.mu.Lock()
	p, ok := w.players[name]
	if ok {
		delete(w.players, name)
		w.removePlayerOrderLocked(name)
		if p.Output != nil {
			close(p.Output)
		}
	}
	hooks := w.hooks
	w.mu.Unlock()

	if ok && hooks != nil {
		hooks.OnPlayerDisconnect(p.Identity())
	}
}

// Broadcast sends msg to every connected player except the sender.
func (w *World) Broadcast(msg string, except *Player) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.players {
		if p == except || !p.Alive {
			continue
		}
		deliver(p, msg)
	}
}

// BroadcastToAllChannel sends msg to every player listening on channel.
func (w *World) BroadcastToAllChannel(msg string, except *Player, channel Channel) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, target := range w.players {
		if target == except || !target.Alive {
			continue
		}
		if !target.channelEnabled(channel) {
			continue
		}
		deliver(target, msg)
	}
}

func deliver(target *Player, msg string) {
	if target == nil || target.Output == nil {
		return
	}
	select {
	case target.Output <- msg:
	default:
	}
}

// Notify sends msg to a single player.
func (w *World) Notify(p *Player, msg string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if p.Alive {
		deliver(p, msg)
	}
}

func (w *World) SetChannel(p *Player, channel Channel, enabled bool) {
	w.mu.Lock()
	if _, ok := w.players[p.Name]; !ok {
		w.mu.Unlock()
		return
	}
	if p.Channels == nil {
		p.Channels = DefaultChannelSettings()
	}
	p.Channels[channel] = enabled
	w.mu.Unlock()
	w.PersistPlayer(p)
}

func (w *World) ChannelStatuses(p *Player) map[Channel]bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	statuses := make(map[Channel]bool, len(allChannels))
	for _, channel := range allChannels {
		statuses[channel] = p.channelEnabled(channel)
	}
	return statuses
}

// PersistPlayer flushes the player's preferences to the account store.
func (w *World) PersistPlayer(p *Player) {
	if p == nil {
		return
	}
	w.mu.RLock()
	accounts := w.accounts
	account := p.Account
	channels := cloneChannelSettings(p.Channels)
	w.mu.RUnlock()
	if accounts == nil || account == "" {
		return
	}
	if err := accounts.SaveProfile(account, PlayerProfile{Channels: channels}); err != nil {
		w.logger.Error("failed to persist player state", "account", account, "error", err)
	}
}

// ListPlayers returns the names of connected players in login order.
func (w *World) ListPlayers() []string {
	players := w.online()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

// ListNames returns the player-list label of every connected player in login order.
func (w *World) ListNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var names []string
	for _, name := range w.playerOrder {
		if p, ok := w.players[name]; ok && p.Alive {
			names = append(names, p.displayName())
		}
	}
	return names
}

func (w *World) online() []*Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Player, 0, len(w.playerOrder))
	for _, name := range w.playerOrder {
		if p, ok := w.players[name]; ok && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (w *World) findPlayerLocked(name string) (*Player, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	if p, ok := w.players[trimmed]; ok && p.Alive {
		return p, true
	}
	candidates := make([]*Player, 0, len(w.players))
	names := make([]string, 0, len(w.players))
	for _, p := range w.players {
		if !p.Alive {
			continue
		}
		candidates = append(candidates, p)
		names = append(names, p.Name)
	}
	idx, ok := matchName(trimmed, names)
	if !ok {
		return nil, false
	}
	return candidates[idx], true
}

// FindPlayer locates an online player by name, performing a case-insensitive match.
func (w *World) FindPlayer(name string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.findPlayerLocked(name)
}

// FindPlayerExact locates an online player whose name equals name, ignoring case.
// Unlike FindPlayer it never resolves a partial name.
func (w *World) FindPlayerExact(name string) (*Player, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.players {
		if p.Alive && strings.EqualFold(p.Name, trimmed) {
			return p, true
		}
	}
	return nil, false
}

// ChatPrefix returns the tag shown before the player's name in chat.
func (w *World) ChatPrefix(p *Player) string {
	hooks := w.tagHooks()
	if hooks == nil {
		return ""
	}
	return hooks.OnFormatChatPrefix(p.Identity())
}

// ChatLine formats a chat message from p including their tag.
func (w *World) ChatLine(p *Player, msg string) string {
	return tags.ChatLine(w.ChatPrefix(p), HighlightName(p.Name), msg)
}

// NameTag renders the player's in-world name, decorated by their team.
func (w *World) NameTag(p *Player) string {
	if team, ok := w.scoreboard.EntryTeam(p.Name); ok {
		return team.Decorate(p.Name)
	}
	return HighlightName(p.Name)
}

// OnlinePlayers lists every connected player's identity in login order.
func (w *World) OnlinePlayers() []tags.Identity {
	players := w.online()
	out := make([]tags.Identity, len(players))
	for i, p := range players {
		out[i] = p.Identity()
	}
	return out
}

// DisplayName is the label shown for p in listings. Tag changes rewrite it
// from other goroutines, so it is read under the world lock.
func (w *World) DisplayName(p *Player) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return p.displayName()
}

// SetListName changes the label shown for the player in listings.
func (w *World) SetListName(player tags.Identity, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.players {
		if p.Alive && p.ID == player.ID {
			p.listName = name
			return nil
		}
	}
	return fmt.Errorf("%s: %w", player.Name, ErrPlayerOffline)
}

// Team looks up a registered team.
func (w *World) Team(key string) (tags.Team, bool) {
	team, ok := w.scoreboard.Team(key)
	if !ok {
		return nil, false
	}
	return team, true
}

// RegisterTeam creates a team on the scoreboard.
func (w *World) RegisterTeam(key string) (tags.Team, error) {
	team, err := w.scoreboard.RegisterTeam(key)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (w *World) removePlayerOrderLocked(name string) {
	for i, existing := range w.playerOrder {
		if existing == name {
			w.playerOrder = append(w.playerOrder[:i], w.playerOrder[i+1:]...)
			return
		}
	}
}

var _ tags.Host = (*World)(nil)
