package game

import (
	"maps"
	"slices"
	"strings"
)

// Channel is a chat stream a player can mute.
type Channel string

const (
	ChannelSay Channel = "say"
	ChannelOOC Channel = "ooc"
)

var allChannels = []Channel{ChannelSay, ChannelOOC}

// AllChannels lists the chat channels in display order.
func AllChannels() []Channel {
	return slices.Clone(allChannels)
}

// ChannelNames lists the channel names as players type them.
func ChannelNames() []string {
	names := make([]string, len(allChannels))
	for i, channel := range allChannels {
		names[i] = string(channel)
	}
	return names
}

// ChannelFromString resolves a channel name, ignoring case and spaces.
func ChannelFromString(name string) (Channel, bool) {
	channel := Channel(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(allChannels, channel) {
		return "", false
	}
	return channel, true
}

// DefaultChannelSettings has every channel switched on.
func DefaultChannelSettings() map[Channel]bool {
	settings := make(map[Channel]bool, len(allChannels))
	for _, channel := range allChannels {
		settings[channel] = true
	}
	return settings
}

func cloneChannelSettings(settings map[Channel]bool) map[Channel]bool {
	return maps.Clone(settings)
}

// encodeChannelSettings converts settings to the form stored with an account.
func encodeChannelSettings(settings map[Channel]bool) map[string]bool {
	if settings == nil {
		return nil
	}
	encoded := make(map[string]bool, len(settings))
	for channel, enabled := range settings {
		encoded[string(channel)] = enabled
	}
	return encoded
}

// decodeChannelSettings starts from the defaults so channels added later are on.
func decodeChannelSettings(raw map[string]bool) map[Channel]bool {
	settings := DefaultChannelSettings()
	for name, enabled := range raw {
		if channel, ok := ChannelFromString(name); ok {
			settings[channel] = enabled
		}
	}
	return settings
}
