package admin

import (
	"fmt"
	"strconv"

	"aoba/bot/command"
	"aoba/service"

	log "github.com/sirupsen/logrus"
)

const defaultPurgeLimit = 100

func (f *Feature) handleCustomCommand(ctx *command.Context) error {
	switch ctx.Arg(0) {
	case "add":
		return f.addCustomCommand(ctx)
	case "del":
		return f.deleteCustomCommand(ctx)
	default:
		return ctx.Reply("Invalid custom command passed.")
	}
}

func (f *Feature) addCustomCommand(ctx *command.Context) error {
	if len(ctx.Args) < 3 {
		return ctx.UsageError()
	}
	name, text := ctx.Arg(1), ctx.Rest(2)

	// Checked before persisting so a built-in collision leaves nothing behind
	if err := f.registry.CanRegister(name); err != nil {
		return err
	}

	if _, err := f.customCommandService.Add(ctx, ctx.GuildID(), ctx.AuthorID(), name, text); err != nil {
		return err
	}

	if err := f.registry.Register(command.NewCustomCommand(name, f.customCommandService)); err != nil {
		return fmt.Errorf("failed to register custom command %q: %w", name, err)
	}

	log.WithFields(log.Fields{
		"guildID": ctx.Message.GuildID,
		"name":    name,
		"author":  ctx.Message.AuthorID,
	}).Info("Custom command added")

	return ctx.Reply("Command `%s` was successfully added!", name)
}

func (f *Feature) deleteCustomCommand(ctx *command.Context) error {
	name := ctx.Arg(1)
	if name == "" {
		return ctx.UsageError()
	}

	stillUsed, err := f.customCommandService.Delete(ctx, ctx.GuildID(), ctx.AuthorID(), name)
	if err != nil {
		return err
	}

	if !stillUsed {
		f.registry.Unregister(name)
	}

	log.WithFields(log.Fields{
		"guildID":   ctx.Message.GuildID,
		"name":      name,
		"stillUsed": stillUsed,
	}).Info("Custom command deleted")

	return ctx.Reply("Command `%s` was successfully deleted!", name)
}

func (f *Feature) handlePrefix(ctx *command.Context) error {
	prefix := ctx.Arg(0)
	if prefix == "" {
		return ctx.UsageError()
	}

	if err := f.guildService.SetPrefix(ctx, ctx.GuildID(), prefix); err != nil {
		return err
	}

	return ctx.Reply("Command prefix changed to `%s`", prefix)
}

func (f *Feature) handleAnnouncementChannel(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		if err := f.guildService.SetAnnouncementChannel(ctx, ctx.GuildID(), nil); err != nil {
			return err
		}
		return ctx.Reply("Announcement channel cleared.")
	}

	channelID, err := command.ParseChannelMention(ctx.Arg(0))
	if err != nil {
		return service.NewUserError(service.ErrInvalidArgument, "Channel %q not found.", ctx.Arg(0))
	}

	id := command.Snowflake(channelID)
	if err := f.guildService.SetAnnouncementChannel(ctx, ctx.GuildID(), &id); err != nil {
		return err
	}

	return ctx.Reply("Announcement channel set to <#%s>.", channelID)
}

// moderate applies a member action to the mentioned user
func (f *Feature) moderate(ctx *command.Context, action string, apply func(guildID, userID string) error) error {
	if len(ctx.Args) == 0 {
		return ctx.UsageError()
	}

	userID, err := command.ParseMention(ctx.Arg(0))
	if err != nil {
		return service.NewUserError(service.ErrInvalidArgument, "User %q not found.", ctx.Arg(0))
	}

	if err := apply(ctx.Message.GuildID, userID); err != nil {
		return fmt.Errorf("failed to %s user %s: %w", action, userID, err)
	}

	log.WithFields(log.Fields{
		"guildID": ctx.Message.GuildID,
		"userID":  userID,
		"by":      ctx.Message.AuthorID,
	}).Infof("Member %s", action)
	return nil
}

func (f *Feature) handleKick(ctx *command.Context) error {
	return f.moderate(ctx, "kick", ctx.Gateway.Kick)
}

func (f *Feature) handleBan(ctx *command.Context) error {
	return f.moderate(ctx, "ban", ctx.Gateway.Ban)
}

func (f *Feature) handleUnban(ctx *command.Context) error {
	return f.moderate(ctx, "unban", ctx.Gateway.Unban)
}

func (f *Feature) handlePurge(ctx *command.Context) error {
	limit := defaultPurgeLimit
	if arg := ctx.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return service.NewUserError(service.ErrInvalidArgument, "The limit must be a positive number!")
		}
		limit = n
	}

	deleted, err := ctx.Gateway.Purge(ctx.Message.ChannelID, limit)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"channelID": ctx.Message.ChannelID,
		"deleted":   deleted,
	}).Info("Purged channel")
	return nil
}
