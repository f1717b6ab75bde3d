package admin

import (
	"aoba/bot/command"
	"aoba/service"
)

// Category groups the admin commands in help output
const Category = "Admin"

// Feature handles custom commands, guild configuration and moderation
type Feature struct {
	registry             *command.Registry
	guildService         service.GuildService
	customCommandService service.CustomCommandService
}

// New creates the admin feature
func New(registry *command.Registry, guildService service.GuildService, customCommandService service.CustomCommandService) *Feature {
	return &Feature{
		registry:             registry,
		guildService:         guildService,
		customCommandService: customCommandService,
	}
}

// Commands returns the admin commands, all restricted to guild administrators
func (f *Feature) Commands() []*command.Command {
	checks := []command.Check{command.AuthorIsAdmin}

	return []*command.Command{
		{
			Name:     "custom_cmd",
			Usage:    "<add|del> <name> [text]",
			Help:     "Manage custom commands",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleCustomCommand,
		},
		{
			Name:     "prefix",
			Usage:    "<new_prefix>",
			Help:     "Set the default command prefix",
			Category: Category,
			Checks:   checks,
			Handler:  f.handlePrefix,
		},
		{
			Name:     "announcement_channel",
			Usage:    "[#channel]",
			Help:     "Set or clear the channel used for announcements",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleAnnouncementChannel,
		},
		{
			Name:     "kick",
			Usage:    "<@user>",
			Help:     "Kick a member from this server",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleKick,
		},
		{
			Name:     "ban",
			Usage:    "<@user>",
			Help:     "Ban a member from this server",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleBan,
		},
		{
			Name:     "unban",
			Usage:    "<@user>",
			Help:     "Unban a member from this server",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleUnban,
		},
		{
			Name:     "purge",
			Usage:    "[limit=100]",
			Help:     "Deletes 100 or a specified number of messages from this channel",
			Category: Category,
			Checks:   checks,
			Handler:  f.handlePurge,
		},
	}
}
