package tags

import (
	"fmt"
	"strings"
)

// TeamKey derives the stable team name for a player id, trimmed to limit.
func TeamKey(id string, limit int) string {
	key := "ct_" + strings.ReplaceAll(id, "-", "")
	if limit > 0 && len(key) > limit {
		key = key[:limit]
	}
	return key
}

// ListName is the player-list label for a tag prefix and base name.
func ListName(prefix, baseName string) string {
	if prefix == "" {
		return baseName
	}
	return prefix + " " + baseName
}

// ApplyAppearance pushes the player's current tag to the player list and to
// the player's team. Host rejections are logged and otherwise ignored.
func (m *Manager) ApplyAppearance(player Identity) {
	if m.host == nil {
		return
	}
	rec := m.Get(player.ID)
	prefix := FormattedTag(rec)
	if err := m.host.SetListName(player, ListName(prefix, player.Name)); err != nil {
		m.logger.Debug("list name rejected", "player", player.Name, "error", err)
		if err := m.host.SetListName(player, player.Name); err != nil {
			m.logger.Debug("list name fallback rejected", "player", player.Name, "error", err)
		}
	}
	m.applyTeam(player, rec)
}

func (m *Manager) applyTeam(player Identity, rec Record) {
	key := TeamKey(player.ID, m.teamNameLimit)
	team, ok := m.host.Team(key)
	if !ok {
		registered, err := m.host.RegisterTeam(key)
		if err != nil {
			m.logger.Debug("team registration rejected", "team", key, "error", err)
			registered, ok = m.host.Team(key)
			if !ok {
				return
			}
		}
		team = registered
	}
	if team == nil {
		return
	}
	if !team.HasEntry(player.Name) {
		if err := team.AddEntry(player.Name); err != nil {
			m.logger.Debug("team entry rejected", "team", key, "player", player.Name, "error", err)
		}
	}
	color, prefix := White, ""
	if rec.Visible() {
		color, prefix = rec.Color, FormattedTag(rec)+" "
	}
	if err := team.SetColor(color); err != nil {
		m.logger.Debug("team color rejected", "team", key, "error", err)
	}
	if err := team.SetPrefix(prefix); err != nil {
		m.logger.Debug("team prefix rejected", "team", key, "error", err)
	}
}

// RemoveAppearance takes the player out of their team and unregisters the
// team once it is empty. Nothing here may fail the disconnect.
func (m *Manager) RemoveAppearance(player Identity) {
	if m.host == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("team cleanup panicked", "player", player.Name, "panic", fmt.Sprint(r))
		}
	}()
	key := TeamKey(player.ID, m.teamNameLimit)
	team, ok := m.host.Team(key)
	if !ok || team == nil {
		return
	}
	if err := team.RemoveEntry(player.Name); err != nil {
		m.logger.Debug("team entry removal rejected", "team", key, "error", err)
	}
	if team.Empty() {
		if err := team.Unregister(); err != nil {
			m.logger.Debug("team unregister rejected", "team", key, "error", err)
		}
	}
}

// SyncOnline reapplies the appearance of every connected player.
func (m *Manager) SyncOnline() {
	if m.host == nil {
		return
	}
	for _, player := range m.host.OnlinePlayers() {
		m.ApplyAppearance(player)
	}
}
