package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
)

var Help = Define(Definition{
	Name:        "help",
	Aliases:     []string{"?"},
	Usage:       "help [command]",
	Description: "list commands or describe one",
	Complete: func(ctx *Context, args []string) []string {
		if len(args) != 1 {
			return nil
		}
		return completeCommandName(ctx.Player, args[0])
	},
}, func(ctx *Context) bool {
	if name := strings.TrimSpace(ctx.Arg); name != "" {
		ctx.Player.Output <- game.Ansi(commandDetail(ctx, name))
		return false
	}
	message := helpSection("Commands:", commandsForGroup(GroupGeneral))
	if ctx.Player.IsAdmin {
		message += helpSection("Admin commands:", commandsForGroup(GroupAdmin))
	}
	message += "\r\nType 'help <command>' for details or 'tag help' for chat tag options."
	ctx.Player.Output <- game.Ansi(message)
	return false
})

func usageOf(cmd *Command) string {
	if strings.TrimSpace(cmd.Usage) == "" {
		return cmd.Name
	}
	return cmd.Usage
}

func helpSection(title string, cmds []*Command) string {
	var b strings.Builder
	b.WriteString(game.Style("\r\n"+title+"\r\n", game.AnsiBold, game.AnsiUnderline))
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "  %-24s %s\r\n", usageOf(cmd), cmd.Description)
	}
	return b.String()
}

// commandDetail hides admin commands from players, as if they did not exist.
func commandDetail(ctx *Context, name string) string {
	cmd, ok := Find(name)
	if !ok || (cmd.Group == GroupAdmin && !ctx.Player.IsAdmin) {
		return game.Style("\r\nNo help for '"+name+"'.", game.AnsiYellow)
	}
	var b strings.Builder
	b.WriteString(game.Style("\r\n"+usageOf(cmd)+"\r\n", game.AnsiBold))
	b.WriteString("  " + cmd.Description + "\r\n")
	if len(cmd.Aliases) > 0 {
		b.WriteString("  Aliases: " + strings.Join(cmd.Aliases, ", ") + "\r\n")
	}
	return b.String()
}

func commandsForGroup(group CommandGroup) []*Command {
	return slices.DeleteFunc(All(), func(cmd *Command) bool {
		return cmd.Group != group
	})
}
