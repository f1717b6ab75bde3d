package command

import (
	"context"
	"errors"

	"aoba/models"

	log "github.com/sirupsen/logrus"
)

// CustomCommandHelp is the help line shown for guild-defined commands
const CustomCommandHelp = "Custom command"

// TextSource reads the current reply text of a custom command
type TextSource interface {
	GetText(ctx context.Context, guildID int64, name string) (string, error)
}

// CustomCommandLister lists every persisted custom command
type CustomCommandLister interface {
	ListAll(ctx context.Context) ([]*models.CustomCommand, error)
}

// NewCustomCommand builds the registry entry for a custom command. The text
// is read on every invocation so edits show up without re-registering.
func NewCustomCommand(name string, texts TextSource) *Command {
	return &Command{
		Name: name,
		Help: CustomCommandHelp,
		Kind: Custom,
		Handler: func(ctx *Context) error {
			text, err := texts.GetText(ctx, ctx.GuildID(), name)
			if err != nil {
				return err
			}
			_, err = ctx.Send(text)
			return err
		},
	}
}

// LoadCustomCommands registers one entry per distinct persisted command name
// and returns how many were registered. Names taken by built-ins are skipped.
func LoadCustomCommands(ctx context.Context, registry *Registry, lister CustomCommandLister, texts TextSource) (int, error) {
	cmds, err := lister.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	registered := 0
	seen := make(map[string]struct{}, len(cmds))
	for _, cmd := range cmds {
		if _, ok := seen[cmd.Name]; ok {
			continue
		}
		seen[cmd.Name] = struct{}{}

		err := registry.Register(NewCustomCommand(cmd.Name, texts))
		var dup *DuplicateNameError
		if errors.As(err, &dup) {
			log.WithFields(log.Fields{
				"name":    cmd.Name,
				"guildID": cmd.GuildID,
			}).Warn("Persisted custom command shadows a built-in, skipping")
			continue
		}
		if err != nil {
			return registered, err
		}
		registered++
	}

	log.WithField("count", registered).Info("Loaded custom commands")
	return registered, nil
}
