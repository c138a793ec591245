package commands

import (
	"fmt"
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

const channelUsage = "Usage: channel <name> <on|off>"

var Channel = Define(Definition{
	Name:        "channel",
	Usage:       "channel <name> <on|off>",
	Description: "mute or unmute a chat channel",
	Complete:    completeChannel,
}, func(ctx *Context) bool {
	fields := strings.Fields(ctx.Arg)
	switch len(fields) {
	case 0:
		ctx.Player.Output <- game.Ansi(channelStatus(ctx.World.ChannelStatuses(ctx.Player)))
		return false
	case 2:
	default:
		ctx.Player.Output <- game.Ansi(game.Style("\r\n"+channelUsage, game.AnsiYellow))
		return false
	}
	channel, ok := game.ChannelFromString(fields[0])
	if !ok {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nUnknown channel.", game.AnsiYellow))
		return false
	}
	enabled, ok := parseSwitch(fields[1])
	if !ok {
		ctx.Player.Output <- game.Ansi(game.Style("\r\n"+channelUsage, game.AnsiYellow))
		return false
	}
	ctx.World.SetChannel(ctx.Player, channel, enabled)
	ctx.Player.Output <- game.Ansi(fmt.Sprintf("\r\n%s channel %s.", strings.ToUpper(string(channel)), switchLabel(enabled)))
	return false
})

// parseSwitch reads the on/off word players type after a setting.
func parseSwitch(word string) (bool, bool) {
	switch strings.ToLower(word) {
	case "on", "enable", "enabled", "true":
		return true, true
	case "off", "disable", "disabled", "false":
		return false, true
	}
	return false, false
}

func switchLabel(enabled bool) string {
	if enabled {
		return game.Style("ON", game.AnsiGreen, game.AnsiBold)
	}
	return game.Style("OFF", game.AnsiYellow)
}

func channelStatus(statuses map[game.Channel]bool) string {
	var b strings.Builder
	b.WriteString("\r\nChannel settings:")
	for _, channel := range game.AllChannels() {
		fmt.Fprintf(&b, "\r\n  %-6s %s", strings.ToUpper(string(channel)), switchLabel(statuses[channel]))
	}
	return b.String()
}

func completeChannel(_ *Context, args []string) []string {
	switch len(args) {
	case 1:
		return filterPrefix(game.ChannelNames(), args[0])
	case 2:
		return filterPrefix([]string{"on", "off"}, args[1])
	}
	return nil
}
