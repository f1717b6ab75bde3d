package botadmin

import (
	"aoba/bot/command"
	"aoba/service"
)

// Category groups the bot owner commands in help output
const Category = "BotAdmin"

// Feature handles commands reserved to the bot owner
type Feature struct {
	guildService service.GuildService
	shutdown     func()
}

// New creates the bot admin feature. shutdown is called once the farewell
// message has been sent.
func New(guildService service.GuildService, shutdown func()) *Feature {
	return &Feature{
		guildService: guildService,
		shutdown:     shutdown,
	}
}

// Commands returns the owner-only commands
func (f *Feature) Commands() []*command.Command {
	checks := []command.Check{command.AuthorIsOwner}

	return []*command.Command{
		{
			Name:     "shutdown",
			Help:     "Shutdown the bot",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleShutdown,
		},
		{
			Name:     "guilds",
			Aliases:  []string{"servers"},
			Help:     "List of servers running Aoba",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleGuilds,
		},
		{
			Name:     "status",
			Usage:    "[text...]",
			Help:     "Change Aoba's status text",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleStatus,
		},
		{
			Name:     "announce",
			Usage:    "<text...>",
			Help:     "Make an announcement in every server",
			Category: Category,
			Checks:   checks,
			Handler:  f.handleAnnounce,
		},
	}
}
