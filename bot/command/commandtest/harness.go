package commandtest

import (
	"context"
	"fmt"
	"sync/atomic"

	"aoba/bot/command"
)

// Default IDs used by harness messages
const (
	GuildID   = "1"
	ChannelID = "10"
	OwnerID   = "999"
)

// StaticPrefix resolves every guild to the same prefix
type StaticPrefix string

func (p StaticPrefix) GetPrefix(ctx context.Context, guildID int64) (string, error) {
	return string(p), nil
}

// Harness dispatches messages against a registry through a fake gateway
type Harness struct {
	Gateway    *Gateway
	Registry   *command.Registry
	Dispatcher *command.Dispatcher

	nextID atomic.Int64
}

// NewHarness creates a harness using the "!" prefix and OwnerID as bot owner
func NewHarness() *Harness {
	h := &Harness{
		Gateway:  NewGateway(),
		Registry: command.NewRegistry(),
	}
	h.Dispatcher = command.NewDispatcher(h.Registry, h.Gateway, StaticPrefix("!"), OwnerID)
	return h
}

// Register adds built-in commands, failing on the first error
func (h *Harness) Register(cmds ...*command.Command) error {
	for _, cmd := range cmds {
		if err := h.Registry.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Message builds a guild message from authorID
func (h *Harness) Message(authorID, content string) command.Message {
	return command.Message{
		ID:        fmt.Sprintf("in%d", h.nextID.Add(1)),
		GuildID:   GuildID,
		ChannelID: ChannelID,
		AuthorID:  authorID,
		Content:   content,
	}
}

// Invoke dispatches a message synchronously and reports whether a command ran
func (h *Harness) Invoke(authorID, content string) bool {
	return h.Dispatcher.HandleMessage(context.Background(), h.Message(authorID, content))
}
