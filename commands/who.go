package commands

import (
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

var Who = Define(Definition{
	Name:        "who",
	Usage:       "who",
	Description: "list connected players",
}, func(ctx *Context) bool {
	names := ctx.World.ListNames()
	others := game.FilterOut(names, ctx.World.DisplayName(ctx.Player))
	if len(others) == 0 {
		ctx.Player.Output <- game.Ansi("\r\nYou are the only one online.")
		return false
	}
	ctx.Player.Output <- game.Ansi("\r\nAlso online: " + strings.Join(others, ", "))
	return false
})
