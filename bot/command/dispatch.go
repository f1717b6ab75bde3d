package command

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	"aoba/service"

	log "github.com/sirupsen/logrus"
)

// GenericErrorReply is sent when a command fails for a reason the user cannot fix
const GenericErrorReply = "Something went wrong, please try again or check the logs."

// PrefixResolver returns the command prefix of a guild
type PrefixResolver interface {
	GetPrefix(ctx context.Context, guildID int64) (string, error)
}

// userMessager is implemented by errors that carry their own reply text
type userMessager interface {
	UserMessage() string
}

// Dispatcher turns inbound messages into command invocations
type Dispatcher struct {
	registry *Registry
	gateway  Gateway
	prefixes PrefixResolver
	ownerID  string
}

// NewDispatcher creates a dispatcher over the registry
func NewDispatcher(registry *Registry, gateway Gateway, prefixes PrefixResolver, ownerID string) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		gateway:  gateway,
		prefixes: prefixes,
		ownerID:  ownerID,
	}
}

// Invocation is a resolved command ready to run
type Invocation struct {
	ctx *Context
}

// Context returns the invocation context
func (inv *Invocation) Context() *Context {
	return inv.ctx
}

// Prepare resolves the message against the registry. It reports false when
// the message is not a command invocation.
func (d *Dispatcher) Prepare(ctx context.Context, msg Message) (*Invocation, bool) {
	if msg.GuildID == "" || msg.AuthorBot {
		return nil, false
	}

	prefix, err := d.prefixes.GetPrefix(ctx, Snowflake(msg.GuildID))
	if err != nil {
		log.WithFields(log.Fields{
			"guildID":   msg.GuildID,
			"messageID": msg.ID,
			"error":     err,
		}).Error("Failed to look up command prefix, dropping message")
		return nil, false
	}

	if prefix == "" || !strings.HasPrefix(msg.Content, prefix) {
		return nil, false
	}

	name, rest := splitName(msg.Content[len(prefix):])
	if name == "" {
		return nil, false
	}

	cmd, ok := d.registry.Resolve(name)
	if !ok {
		log.WithFields(log.Fields{
			"guildID": msg.GuildID,
			"name":    name,
		}).Debug("Ignoring unknown command")
		return nil, false
	}

	return &Invocation{
		ctx: &Context{
			Context:     ctx,
			Gateway:     d.gateway,
			Message:     msg,
			Command:     cmd,
			Prefix:      prefix,
			InvokedWith: name,
			Args:        SplitArgs(rest),
			OwnerID:     d.ownerID,
		},
	}, true
}

// Run evaluates the checks and executes the handler. Failures are reported
// to the channel and never propagate to the caller.
func (inv *Invocation) Run() {
	ctx := inv.ctx
	cmd := ctx.Command

	fields := log.Fields{
		"command": cmd.Name,
		"guildID": ctx.Message.GuildID,
		"author":  ctx.Message.AuthorID,
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(fields).WithField("panic", r).Errorf("Command handler panicked\n%s", debug.Stack())
			inv.reply(GenericErrorReply)
		}
	}()

	for _, check := range cmd.Checks {
		if !check(ctx) {
			log.WithFields(fields).Debug("Command check failed")
			return
		}
	}

	err := cmd.Handler(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, service.ErrPersistenceUnavailable) {
		log.WithFields(fields).WithError(err).Error("Command failed, database unavailable")
		inv.reply(GenericErrorReply)
		return
	}

	var um userMessager
	if errors.As(err, &um) {
		log.WithFields(fields).WithError(err).Debug("Command rejected")
		inv.reply(um.UserMessage())
		return
	}

	log.WithFields(fields).WithError(err).Error("Command failed")
	inv.reply(GenericErrorReply)
}

func (inv *Invocation) reply(content string) {
	if _, err := inv.ctx.Gateway.Send(inv.ctx.Message.ChannelID, content); err != nil {
		log.WithFields(log.Fields{
			"channelID": inv.ctx.Message.ChannelID,
			"error":     err,
		}).Error("Failed to send reply")
	}
}

// HandleMessage prepares and runs the message synchronously
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) bool {
	inv, ok := d.Prepare(ctx, msg)
	if !ok {
		return false
	}
	inv.Run()
	return true
}
