package botadmin

import (
	"strconv"

	"aoba/bot/command"
	"aoba/bot/common"

	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleShutdown(ctx *command.Context) error {
	log.WithField("by", ctx.Message.AuthorID).Info("Shutdown requested")

	if err := ctx.Reply("Shutting down, bye admin!"); err != nil {
		log.WithError(err).Warn("Failed to send shutdown reply")
	}
	f.shutdown()
	return nil
}

func (f *Feature) handleGuilds(ctx *command.Context) error {
	guilds := ctx.Gateway.Guilds()
	names := make([]string, len(guilds))
	for i, g := range guilds {
		names[i] = g.Name
	}
	return ctx.Reply("**Guilds:**\n" + common.FormatQuoteList(names))
}

func (f *Feature) handleStatus(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		status := ctx.Gateway.Status()
		if status == "" {
			return ctx.Reply("I don't have a status right now.")
		}
		return ctx.Reply(status)
	}

	status := ctx.Rest(0)
	if err := ctx.Gateway.SetStatus(status); err != nil {
		return err
	}
	return ctx.Reply("My status was changed to `%s`!", status)
}

func (f *Feature) handleAnnounce(ctx *command.Context) error {
	text := ctx.Rest(0)
	if text == "" {
		return ctx.UsageError()
	}

	channels, err := f.guildService.AnnouncementChannels(ctx)
	if err != nil {
		return err
	}

	guilds := ctx.Gateway.Guilds()
	if err := ctx.Reply("Announcing `%s` in %d servers.", text, len(guilds)); err != nil {
		return err
	}

	var targets []string
	var missing []string
	for _, g := range guilds {
		channelID, ok := channels[command.Snowflake(g.ID)]
		if !ok {
			missing = append(missing, g.Name)
			continue
		}
		targets = append(targets, strconv.FormatInt(channelID, 10))
	}

	if len(missing) > 0 {
		if err := ctx.Reply("Announcement channel was not found for guilds:\n" + common.FormatQuoteList(missing)); err != nil {
			return err
		}
	}

	for _, channelID := range targets {
		if _, err := ctx.Gateway.Send(channelID, text); err != nil {
			log.WithFields(log.Fields{
				"channelID": channelID,
				"error":     err,
			}).Error("Failed to post announcement")
		}
	}

	log.WithFields(log.Fields{
		"delivered": len(targets),
		"missing":   len(missing),
	}).Infof("Announcement sent to %d servers", len(targets))
	return nil
}
