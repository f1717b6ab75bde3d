package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"aoba/service"
)

// Message is an inbound chat message
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Context carries one command invocation
type Context struct {
	context.Context

	Gateway Gateway
	Message Message
	Command *Command

	// Prefix is the guild prefix the message was invoked with
	Prefix string

	// InvokedWith is the name or alias typed by the user
	InvokedWith string

	// Args are the tokens after the command name
	Args []string

	// OwnerID is the configured bot owner
	OwnerID string
}

// Reply sends a message to the invoking channel
func (c *Context) Reply(format string, args ...any) error {
	content := format
	if len(args) > 0 {
		content = fmt.Sprintf(format, args...)
	}
	_, err := c.Gateway.Send(c.Message.ChannelID, content)
	return err
}

// Send posts to the invoking channel and returns the new message ID
func (c *Context) Send(content string) (string, error) {
	return c.Gateway.Send(c.Message.ChannelID, content)
}

// GuildID returns the numeric guild ID
func (c *Context) GuildID() int64 {
	return Snowflake(c.Message.GuildID)
}

// AuthorID returns the numeric author ID
func (c *Context) AuthorID() int64 {
	return Snowflake(c.Message.AuthorID)
}

// Mention formats the invoking author as a mention
func (c *Context) Mention() string {
	return "<@" + c.Message.AuthorID + ">"
}

// Arg returns the i-th argument or "" if missing
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i on with single spaces
func (c *Context) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// UsageError reports a malformed invocation with the command's usage line
func (c *Context) UsageError() error {
	usage := c.Prefix + c.InvokedWith
	if c.Command != nil && c.Command.Usage != "" {
		usage += " " + c.Command.Usage
	}
	return service.NewUserError(service.ErrInvalidArgument, "Usage: `%s`", usage)
}

// Snowflake parses a platform ID, returning 0 if it is not numeric
func Snowflake(id string) int64 {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseMention extracts the user ID from a <@id> or <@!id> mention. A bare
// numeric ID is accepted as well.
func ParseMention(mention string) (string, error) {
	id := mention
	if strings.HasPrefix(mention, "<@") && strings.HasSuffix(mention, ">") {
		id = strings.TrimPrefix(strings.TrimSuffix(mention, ">"), "<@")
		id = strings.TrimPrefix(id, "!")
	}

	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", fmt.Errorf("invalid user mention %q", mention)
	}
	return id, nil
}

// ParseChannelMention extracts the channel ID from a <#id> mention or a bare ID
func ParseChannelMention(mention string) (string, error) {
	id := strings.TrimSuffix(strings.TrimPrefix(mention, "<#"), ">")
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", fmt.Errorf("invalid channel mention %q", mention)
	}
	return id, nil
}
