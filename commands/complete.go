package commands

import (
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

var CompleteCommand = Define(Definition{
	Name:        "complete",
	Usage:       "complete <partial line>",
	Description: "suggest how to finish a command",
}, func(ctx *Context) bool {
	suggestions := Complete(ctx, ctx.Arg)
	if len(suggestions) == 0 {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nNo suggestions.", game.AnsiYellow))
		return false
	}
	ctx.Player.Output <- game.Ansi("\r\n" + strings.Join(suggestions, "  "))
	return false
})

// Complete returns candidates for the last word of line. A trailing space
// starts a new, empty word.
func Complete(ctx *Context, line string) []string {
	words := strings.Fields(line)
	if len(words) == 0 || strings.HasSuffix(line, " ") {
		words = append(words, "")
	}
	if len(words) == 1 {
		return completeCommandName(ctx.Player, words[0])
	}
	cmd, ok := Find(words[0])
	if !ok || cmd.Complete == nil {
		return nil
	}
	if cmd.Group == GroupAdmin && !ctx.Player.IsAdmin {
		return nil
	}
	return cmd.Complete(ctx, words[1:])
}

func completeCommandName(player *game.Player, prefix string) []string {
	var names []string
	for _, cmd := range All() {
		if cmd.Group == GroupAdmin && !player.IsAdmin {
			continue
		}
		names = append(names, cmd.Name)
	}
	return filterPrefix(names, prefix)
}
