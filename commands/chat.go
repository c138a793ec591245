package commands

import (
	"fmt"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

var Say = Define(Definition{
	Name:        "say",
	Aliases:     []string{"'"},
	Usage:       "say <message>",
	Description: "chat to everyone online",
}, func(ctx *Context) bool {
	return chat(ctx, game.ChannelSay, "", "Say what?")
})

var OOC = Define(Definition{
	Name:        "ooc",
	Usage:       "ooc <message>",
	Description: "out-of-character chat",
}, func(ctx *Context) bool {
	return chat(ctx, game.ChannelOOC, game.Style("[OOC]", game.AnsiMagenta, game.AnsiBold)+" ", "OOC what?")
})

var Emote = Define(Definition{
	Name:        "emote",
	Aliases:     []string{":"},
	Usage:       "emote <action>",
	Description: "act something out",
}, func(ctx *Context) bool {
	if ctx.Arg == "" {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nEmote what?", game.AnsiYellow))
		return false
	}
	ctx.World.BroadcastToAllChannel(game.Ansi(fmt.Sprintf("\r\n%s %s", ctx.World.NameTag(ctx.Player), ctx.Arg)), ctx.Player, game.ChannelSay)
	ctx.Player.Output <- game.Ansi(fmt.Sprintf("\r\n%s %s", game.Style("You", game.AnsiBold, game.AnsiYellow), ctx.Arg))
	return false
})

// chat sends the speaker's tagged line to every listener on channel and
// echoes it back so the speaker sees their own tag.
func chat(ctx *Context, channel game.Channel, label, empty string) bool {
	if ctx.Arg == "" {
		ctx.Player.Output <- game.Ansi(game.Style("\r\n"+empty, game.AnsiYellow))
		return false
	}
	line := game.Ansi("\r\n" + label + ctx.World.ChatLine(ctx.Player, ctx.Arg))
	ctx.World.BroadcastToAllChannel(line, ctx.Player, channel)
	ctx.Player.Output <- line
	return false
}
