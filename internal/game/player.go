package game

import (
	"time"

	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

// Player represents a connected chatter.
type Player struct {
	ID          string
	Name        string
	Account     string
	Session     *TelnetSession
	Output      chan string
	Alive       bool
	IsAdmin     bool
	Permissions map[string]bool
	Channels    map[Channel]bool
	JoinedAt    time.Time
	listName    string
	history     []time.Time
}

// PlayerProfile captures persistent player state and preferences.
type PlayerProfile struct {
	Channels map[Channel]bool
}

const (
	commandLimit  = 5
	commandWindow = time.Second
)

// Identity returns the id and name the tag manager tracks the player by.
func (p *Player) Identity() tags.Identity {
	return tags.Identity{ID: p.ID, Name: p.Name}
}

// HasPermission reports whether the player holds capability. Admins hold
// every capability.
func (p *Player) HasPermission(capability string) bool {
	if p.IsAdmin {
		return true
	}
	return p.Permissions[capability]
}

// displayName is the label shown in listings. The caller holds the world lock.
func (p *Player) displayName() string {
	if p.listName != "" {
		return p.listName
	}
	return p.Name
}

// WindowSize reports the client's terminal dimensions.
func (p *Player) WindowSize() (int, int) {
	if p.Session == nil {
		return 80, 24
	}
	return p.Session.Size()
}

func (p *Player) allowCommand(now time.Time) bool {
	cutoff := now.Add(-commandWindow)
	filtered := p.history[:0]
	for _, t := range p.history {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	p.history = filtered
	if len(p.history) >= commandLimit {
		return false
	}
	p.history = append(p.history, now)
	return true
}

func (p *Player) channelEnabled(channel Channel) bool {
	if p.Channels == nil {
		return true
	}
	enabled, ok := p.Channels[channel]
	if !ok {
		return true
	}
	return enabled
}

func permissionSet(perms []string) map[string]bool {
	set := make(map[string]bool, len(perms))
	for _, perm := range perms {
		set[perm] = true
	}
	return set
}
