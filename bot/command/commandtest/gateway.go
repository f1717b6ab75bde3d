// Package commandtest provides an in-memory gateway for command tests.
package commandtest

import (
	"fmt"
	"sync"

	"aoba/bot/command"
)

// SentMessage is a message recorded by the fake gateway
type SentMessage struct {
	ID        string
	ChannelID string
	Content   string
}

// Gateway records every effect in memory
type Gateway struct {
	mu sync.Mutex

	Sent      []SentMessage
	Reactions map[string][]string
	Reactors  map[string]map[string][]command.User
	Kicked    []string
	Banned    []string
	Unbanned  []string
	Purged    map[string]int
	Admins    map[string]bool
	Names     map[string]string
	GuildList []command.GuildInfo
	StatusMsg string
	Closed    bool
	SendErr   error

	// ReactionErr fails every ReactionUsers call when set
	ReactionErr error

	nextID int
	onSend func(SentMessage)
}

var _ command.Gateway = (*Gateway)(nil)

// NewGateway creates an empty fake
func NewGateway() *Gateway {
	return &Gateway{
		Reactions: make(map[string][]string),
		Reactors:  make(map[string]map[string][]command.User),
		Purged:    make(map[string]int),
		Admins:    make(map[string]bool),
		Names:     make(map[string]string),
	}
}

// OnSend registers a hook called after every successful Send
func (g *Gateway) OnSend(fn func(SentMessage)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onSend = fn
}

// SetAdmin marks a user as guild administrator
func (g *Gateway) SetAdmin(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Admins[userID] = true
}

// AddReactor records that user reacted to messageID with emoji
func (g *Gateway) AddReactor(messageID, emoji string, user command.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Reactors[messageID] == nil {
		g.Reactors[messageID] = make(map[string][]command.User)
	}
	g.Reactors[messageID][emoji] = append(g.Reactors[messageID][emoji], user)
}

// Messages returns the contents sent so far
func (g *Gateway) Messages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.Sent))
	for i, m := range g.Sent {
		out[i] = m.Content
	}
	return out
}

// Last returns the content of the last message sent, or ""
func (g *Gateway) Last() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Sent) == 0 {
		return ""
	}
	return g.Sent[len(g.Sent)-1].Content
}

func (g *Gateway) Send(channelID, content string) (string, error) {
	g.mu.Lock()
	if g.SendErr != nil {
		g.mu.Unlock()
		return "", g.SendErr
	}
	g.nextID++
	msg := SentMessage{ID: fmt.Sprintf("m%d", g.nextID), ChannelID: channelID, Content: content}
	g.Sent = append(g.Sent, msg)
	hook := g.onSend
	g.mu.Unlock()

	if hook != nil {
		hook(msg)
	}
	return msg.ID, nil
}

func (g *Gateway) React(channelID, messageID, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Reactions[messageID] = append(g.Reactions[messageID], emoji)
	return nil
}

func (g *Gateway) ReactionUsers(channelID, messageID, emoji string) ([]command.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ReactionErr != nil {
		return nil, g.ReactionErr
	}
	users := g.Reactors[messageID][emoji]
	out := make([]command.User, len(users))
	copy(out, users)
	return out, nil
}

func (g *Gateway) SetStatus(text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.StatusMsg = text
	return nil
}

func (g *Gateway) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.StatusMsg
}

func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Closed = true
	return nil
}

func (g *Gateway) Kick(guildID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Kicked = append(g.Kicked, userID)
	return nil
}

func (g *Gateway) Ban(guildID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Banned = append(g.Banned, userID)
	return nil
}

func (g *Gateway) Unban(guildID, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Unbanned = append(g.Unbanned, userID)
	return nil
}

func (g *Gateway) Purge(channelID string, limit int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Purged[channelID] = limit
	return limit, nil
}

func (g *Gateway) IsAdmin(guildID, channelID, userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Admins[userID]
}

func (g *Gateway) Guilds() []command.GuildInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]command.GuildInfo, len(g.GuildList))
	copy(out, g.GuildList)
	return out
}

func (g *Gateway) DisplayName(guildID, userID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name, ok := g.Names[userID]; ok {
		return name
	}
	return userID
}
