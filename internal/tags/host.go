package tags

// Identity names a connected player: a stable unique id plus the name shown
// to other players.
type Identity struct {
	ID   string
	Name string
}

// Team is the host's grouping construct. Its prefix and colour decorate the
// in-world name of every entry.
type Team interface {
	SetColor(Color) error
	SetPrefix(string) error
	AddEntry(name string) error
	HasEntry(name string) bool
	RemoveEntry(name string) error
	Empty() bool
	Unregister() error
}

// Host is the set of presentation surfaces and lookups the manager needs from
// the game server.
type Host interface {
	// OnlinePlayers lists the identities of every connected player.
	OnlinePlayers() []Identity
	// SetListName changes the name shown for the player in the player list.
	SetListName(player Identity, name string) error
	// Team looks up a registered team.
	Team(key string) (Team, bool)
	// RegisterTeam creates a team. Hosts may reject duplicates.
	RegisterTeam(key string) (Team, error)
}
