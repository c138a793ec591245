package commands

import (
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

var Look = Define(Definition{
	Name:        "look",
	Aliases:     []string{"l"},
	Usage:       "look",
	Description: "see who is around",
}, func(ctx *Context) bool {
	var present []string
	for _, name := range ctx.World.ListPlayers() {
		if name == ctx.Player.Name {
			continue
		}
		if p, ok := ctx.World.FindPlayerExact(name); ok {
			present = append(present, ctx.World.NameTag(p))
		}
	}
	var b strings.Builder
	b.WriteString(game.Style("\r\nThe Lobby", game.AnsiBold, game.AnsiCyan))
	b.WriteString("\r\nA quiet hall where travellers gather to talk.")
	if len(present) == 0 {
		b.WriteString("\r\nNobody else is here.")
	} else {
		b.WriteString("\r\nAlso here: " + strings.Join(present, ", "))
	}
	ctx.Player.Output <- game.Ansi(b.String())
	return false
})
