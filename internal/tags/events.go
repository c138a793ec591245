package tags

// OnPlayerConnect restores the player's tag on both presentation surfaces.
func (m *Manager) OnPlayerConnect(player Identity) {
	m.ApplyAppearance(player)
}

// OnPlayerDisconnect releases the player's team membership.
func (m *Manager) OnPlayerDisconnect(player Identity) {
	m.RemoveAppearance(player)
}

// OnFormatChatPrefix returns the prefix placed before the speaker in chat.
func (m *Manager) OnFormatChatPrefix(player Identity) string {
	return FormattedTag(m.Get(player.ID))
}

// ChatLine formats an outgoing chat message. An empty prefix leaves no gap.
func ChatLine(prefix, speaker, message string) string {
	return prefix + speaker + ": " + message
}
