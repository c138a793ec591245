package commands

import "github.com/Johann-FullHD/ChatTags/internal/game"

var Quit = Define(Definition{
	Name:        "quit",
	Aliases:     []string{"q", "logout"},
	Usage:       "quit",
	Description: "disconnect",
}, func(ctx *Context) bool {
	farewell := "\r\nGoodbye."
	if ctx.Tags != nil && ctx.Tags.Get(ctx.Player.ID).Text != "" {
		farewell += " Your tag will be waiting when you return."
	}
	ctx.Player.Output <- game.Ansi(farewell + "\r\n")
	return true
})
