package user

import (
	"aoba/bot/command"
)

// Category groups the general purpose commands in help output
const Category = "User"

// Feature handles help and text utilities available to every member
type Feature struct {
	registry  *command.Registry
	formatter *command.HelpFormatter
}

// New creates the user feature. Help pages are rendered with formatter.
func New(registry *command.Registry, formatter *command.HelpFormatter) *Feature {
	return &Feature{
		registry:  registry,
		formatter: formatter,
	}
}

// Commands returns the user commands
func (f *Feature) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:     "help",
			Usage:    "[command]",
			Help:     "Shows this message",
			Category: Category,
			Handler:  f.handleHelp,
		},
		{
			Name:     "escape_markdown",
			Aliases:  []string{"em"},
			Usage:    "<text...>",
			Help:     "Escapes all Markdown in the message",
			Category: Category,
			Handler:  f.handleEscapeMarkdown,
		},
	}
}
