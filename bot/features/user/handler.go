package user

import (
	"strings"

	"aoba/bot/command"
	"aoba/bot/common"
)

func (f *Feature) handleHelp(ctx *command.Context) error {
	var pages []string
	if name := ctx.Arg(0); name != "" {
		cmd, ok := f.registry.Resolve(name)
		if !ok {
			return ctx.Reply("No command called \"%s\" found.", name)
		}
		pages = f.formatter.FormatCommand(cmd, ctx.Prefix)
	} else {
		pages = f.formatter.FormatListing(f.registry.Snapshot(), ctx.Prefix)
	}

	for _, page := range pages {
		if _, err := ctx.Send(page); err != nil {
			return err
		}
	}
	return nil
}

func (f *Feature) handleEscapeMarkdown(ctx *command.Context) error {
	escaped := make([]string, len(ctx.Args))
	for i, arg := range ctx.Args {
		escaped[i] = common.EscapeMarkdown(arg)
	}
	return ctx.Reply(ctx.Mention() + ":\n" + strings.Join(escaped, " "))
}
