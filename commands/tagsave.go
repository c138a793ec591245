package commands

import (
	"context"
	"time"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

const tagSaveTimeout = 10 * time.Second

var TagSave = Define(Definition{
	Name:        "tagsave",
	Usage:       "tagsave",
	Description: "write every chat tag to storage now (admin only)",
	Group:       GroupAdmin,
}, func(ctx *Context) bool {
	if !ctx.Player.IsAdmin {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nOnly admins may save tags.", game.AnsiYellow))
		return false
	}
	if ctx.Tags == nil {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nChat tags are unavailable right now.", game.AnsiYellow))
		return false
	}
	saveCtx, cancel := context.WithTimeout(context.Background(), tagSaveTimeout)
	defer cancel()
	if err := ctx.Tags.Save(saveCtx); err != nil {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nSaving tags failed: "+err.Error(), game.AnsiRed))
		return false
	}
	ctx.Player.Output <- game.Ansi(game.Style("\r\nTags saved.", game.AnsiGreen))
	return false
})
