package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Johann-FullHD/ChatTags/internal/game"
	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

const (
	permUse            = "chattags.use"
	permSet            = "chattags.set"
	permColor          = "chattags.color"
	permToggle         = "chattags.toggle"
	permClear          = "chattags.clear"
	permAdmin          = "chattags.admin"
	permBypassCooldown = "chattags.bypass.cooldown"
)

var tagSubcommands = []string{"set", "color", "toggle", "preview", "clear", "list", "clear-all", "disable-all", "help"}

var Tag = Define(Definition{
	Name:        "tag",
	Usage:       "tag <set|color|toggle|preview|clear|list|help> [args]",
	Description: "manage your chat tag",
	Complete:    completeTag,
}, func(ctx *Context) bool {
	if !ctx.Player.HasPermission(permUse) {
		denyTag(ctx, "You don't have permission to use this command!")
		return false
	}
	if ctx.Tags == nil {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nChat tags are unavailable right now.", game.AnsiYellow))
		return false
	}
	args := strings.Fields(ctx.Arg)
	if len(args) == 0 {
		sendTagHelp(ctx)
		return false
	}

	switch strings.ToLower(args[0]) {
	case "set":
		if len(args) >= 3 && ctx.Player.HasPermission(permAdmin) {
			tagAdminSet(ctx, args[1], strings.Join(args[2:], " "))
			return false
		}
		tagSet(ctx, args[1:])
	case "color", "colour":
		tagColor(ctx, args[1:])
	case "toggle":
		tagToggle(ctx)
	case "preview":
		tagPreview(ctx)
	case "clear":
		if len(args) >= 2 && ctx.Player.HasPermission(permAdmin) {
			tagAdminClear(ctx, args[1])
			return false
		}
		tagClear(ctx)
	case "list":
		tagList(ctx)
	case "clear-all":
		if !ctx.Player.HasPermission(permAdmin) {
			denyTag(ctx, "You don't have permission to use this command!")
			return false
		}
		count := ctx.Tags.ClearAll()
		ctx.Player.Output <- game.Ansi(game.Style(fmt.Sprintf("\r\nCleared tags for %d players.", count), game.AnsiGreen))
	case "disable-all":
		if !ctx.Player.HasPermission(permAdmin) {
			denyTag(ctx, "You don't have permission to use this command!")
			return false
		}
		count := ctx.Tags.DisableAll()
		ctx.Player.Output <- game.Ansi(game.Style(fmt.Sprintf("\r\nDisabled tags for %d players.", count), game.AnsiYellow))
	case "help":
		sendTagHelp(ctx)
	default:
		denyTag(ctx, "Unknown subcommand! Use 'tag help' for a list of commands.")
	}
	return false
})

func denyTag(ctx *Context, msg string) {
	ctx.Player.Output <- game.Ansi(game.Style("\r\n"+msg, game.AnsiRed))
}

func cooldownExempt(p *game.Player) bool {
	return p.HasPermission(permAdmin) || p.HasPermission(permBypassCooldown)
}

// checkCooldown reports the wait to the player when they changed their tag too recently.
func checkCooldown(ctx *Context) bool {
	if ctx.Tags.CanChange(ctx.Player.ID, cooldownExempt(ctx.Player)) {
		return true
	}
	denyTag(ctx, fmt.Sprintf("You must wait %ds before changing your tag again.", ctx.Tags.RemainingSeconds(ctx.Player.ID)))
	return false
}

func invalidTextMessage(rules tags.Rules) string {
	return fmt.Sprintf("Invalid tag text! Must be %d-%d characters and contain only allowed characters.", rules.MinLength, rules.MaxLength)
}

func tagSet(ctx *Context, args []string) {
	if !ctx.Player.HasPermission(permSet) {
		denyTag(ctx, "You don't have permission to set your tag!")
		return
	}
	if !checkCooldown(ctx) {
		return
	}
	if len(args) == 0 {
		denyTag(ctx, "Usage: tag set <text>")
		return
	}
	id := ctx.Player.Identity()
	if err := ctx.Tags.SetText(id, strings.Join(args, " ")); err != nil {
		denyTag(ctx, invalidTextMessage(ctx.Tags.Rules()))
		return
	}
	ctx.Player.Output <- game.Ansi(game.Style("\r\nTag set to: ", game.AnsiGreen) + ctx.Tags.Get(id.ID).FormattedTag())
}

// adminTarget resolves the online player an admin subcommand acts on.
func adminTarget(world *game.World, name string) (*game.Player, error) {
	target, ok := world.FindPlayerExact(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, tags.ErrPlayerNotFound)
	}
	return target, nil
}

func targetError(ctx *Context, name string, err error) {
	if errors.Is(err, tags.ErrPlayerNotFound) {
		denyTag(ctx, "Player not found: "+name)
		return
	}
	denyTag(ctx, err.Error())
}

func tagAdminSet(ctx *Context, name, text string) {
	target, err := adminTarget(ctx.World, name)
	if err != nil {
		targetError(ctx, name, err)
		return
	}
	id := target.Identity()
	if err := ctx.Tags.SetText(id, text); err != nil {
		denyTag(ctx, invalidTextMessage(ctx.Tags.Rules()))
		return
	}
	tag := ctx.Tags.Get(id.ID).FormattedTag()
	ctx.Player.Output <- game.Ansi(game.Style(fmt.Sprintf("\r\nSet tag for %s: ", target.Name), game.AnsiGreen) + tag)
	if target != ctx.Player {
		ctx.World.Notify(target, game.Ansi(game.Style("\r\nYour tag was set by an admin: ", game.AnsiYellow)+tag))
	}
}

func tagColor(ctx *Context, args []string) {
	if !ctx.Player.HasPermission(permColor) {
		denyTag(ctx, "You don't have permission to change your tag color!")
		return
	}
	if !checkCooldown(ctx) {
		return
	}
	if len(args) == 0 {
		denyTag(ctx, "Usage: tag color <color>")
		ctx.Player.Output <- game.Ansi(game.Style("\r\nAvailable colors: ", game.AnsiYellow) + availableColors())
		return
	}
	color, ok := tags.ParseColor(args[0])
	if !ok {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nInvalid color! Available colors: ", game.AnsiRed) + availableColors())
		return
	}
	id := ctx.Player.Identity()
	if err := ctx.Tags.SetColor(id, color); err != nil {
		denyTag(ctx, "Failed to set tag color!")
		return
	}
	changed := game.Style("\r\nTag color changed to: ", game.AnsiGreen) + ctx.Tags.Get(id.ID).FormattedTag()
	ctx.Player.Output <- game.Ansi(changed + " (" + color.Code() + color.DisplayName() + game.AnsiReset + ")")
}

// availableColors renders every hue name in its own colour.
func availableColors() string {
	colors := tags.Colors()
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.Code() + strings.ToLower(c.Name()) + game.AnsiReset
	}
	return strings.Join(names, ", ")
}

func tagToggle(ctx *Context) {
	if !ctx.Player.HasPermission(permToggle) {
		denyTag(ctx, "You don't have permission to toggle your tag!")
		return
	}
	id := ctx.Player.Identity()
	if ctx.Tags.Toggle(id) {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nTag enabled: ", game.AnsiGreen) + ctx.Tags.Get(id.ID).FormattedTag())
		return
	}
	ctx.Player.Output <- game.Ansi(game.Style("\r\nTag disabled!", game.AnsiYellow))
}

func tagPreview(ctx *Context) {
	rec := ctx.Tags.Get(ctx.Player.ID)
	if rec.Text == "" {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nYou don't have a tag set! Use 'tag set <text>' to create one.", game.AnsiYellow))
		return
	}
	line := tags.ChatLine(rec.FormattedTag(), game.HighlightName(ctx.Player.Name), "Hello world!")
	ctx.Player.Output <- game.Ansi(game.Style("\r\nTag Preview: ", game.AnsiYellow) + line)
}

func tagClear(ctx *Context) {
	if !ctx.Player.HasPermission(permClear) {
		denyTag(ctx, "You don't have permission to clear your tag!")
		return
	}
	if !checkCooldown(ctx) {
		return
	}
	ctx.Tags.Clear(ctx.Player.Identity())
	ctx.Player.Output <- game.Ansi(game.Style("\r\nYour tag has been cleared!", game.AnsiGreen))
}

func tagAdminClear(ctx *Context, name string) {
	target, err := adminTarget(ctx.World, name)
	if err != nil {
		targetError(ctx, name, err)
		return
	}
	ctx.Tags.Clear(target.Identity())
	ctx.Player.Output <- game.Ansi(game.Style("\r\nCleared tag for "+target.Name, game.AnsiGreen))
	if target != ctx.Player {
		ctx.World.Notify(target, game.Ansi(game.Style("\r\nYour tag was cleared by an admin.", game.AnsiYellow)))
	}
}

func tagList(ctx *Context) {
	var lines []string
	for _, p := range ctx.World.OnlinePlayers() {
		rec := ctx.Tags.Get(p.ID)
		if rec.Text == "" {
			continue
		}
		state := game.Style("(disabled)", game.AnsiYellow)
		if rec.Enabled {
			state = game.Style("(enabled)", game.AnsiGreen)
		}
		lines = append(lines, fmt.Sprintf("- %s: %s%s", p.Name, rec.FormattedTag(), state))
	}
	if len(lines) == 0 {
		ctx.Player.Output <- game.Ansi(game.Style("\r\nNo players with tags online.", game.AnsiYellow))
		return
	}
	ctx.Player.Output <- game.Ansi(game.Style("\r\nPlayers with tags (online):", game.AnsiYellow) + "\r\n" + strings.Join(lines, "\r\n"))
}

func sendTagHelp(ctx *Context) {
	var b strings.Builder
	b.WriteString(game.Style("\r\n========== ChatTags Help ==========", game.AnsiYellow))
	entries := [][2]string{
		{"tag set <text>", "Set your chat tag"},
		{"tag color <color>", "Change your tag color"},
		{"tag toggle", "Toggle your tag on/off"},
		{"tag preview", "Preview your tag"},
		{"tag clear", "Clear your tag"},
		{"tag list", "List players with tags"},
	}
	if ctx.Player.HasPermission(permAdmin) {
		entries = append(entries,
			[2]string{"", ""},
			[2]string{"tag set <player> <text>", "Set tag for a player"},
			[2]string{"tag clear <player>", "Clear a player's tag"},
			[2]string{"tag clear-all", "Clear tags for all players"},
			[2]string{"tag disable-all", "Disable tags for all players"},
		)
	}
	for _, entry := range entries {
		if entry[0] == "" {
			b.WriteString("\r\n" + game.Style("-- Admin --", game.AnsiCyan))
			continue
		}
		b.WriteString(fmt.Sprintf("\r\n%s - %s", game.Style(entry[0], game.AnsiYellow), entry[1]))
	}
	b.WriteString("\r\n" + game.Style("===================================", game.AnsiYellow))
	ctx.Player.Output <- game.Ansi(b.String())
}

func completeTag(ctx *Context, args []string) []string {
	switch len(args) {
	case 0:
		return append([]string(nil), tagSubcommands...)
	case 1:
		return filterPrefix(tagSubcommands, args[0])
	case 2:
		sub := strings.ToLower(args[0])
		switch {
		case sub == "color" || sub == "colour":
			return filterPrefix(tags.ColorNames(), args[1])
		case (sub == "set" || sub == "clear") && ctx.Player.HasPermission(permAdmin):
			return filterPrefix(ctx.World.ListPlayers(), args[1])
		}
	}
	return nil
}
