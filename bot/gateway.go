package bot

import (
	"fmt"
	"sync"

	"aoba/bot/command"
	"aoba/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// reactionPageSize is the maximum page size of the message reactions endpoint
const reactionPageSize = 100

// discordGateway implements command.Gateway over a discordgo session
type discordGateway struct {
	session *discordgo.Session

	mu     sync.RWMutex
	status string
}

var _ command.Gateway = (*discordGateway)(nil)

func newDiscordGateway(session *discordgo.Session) *discordGateway {
	return &discordGateway{session: session}
}

func (g *discordGateway) Send(channelID, content string) (string, error) {
	msg, err := g.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (g *discordGateway) React(channelID, messageID, emoji string) error {
	if err := g.session.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		return fmt.Errorf("failed to add reaction %s: %w", emoji, err)
	}
	return nil
}

func (g *discordGateway) ReactionUsers(channelID, messageID, emoji string) ([]command.User, error) {
	var users []command.User
	after := ""
	for {
		page, err := g.session.MessageReactions(channelID, messageID, emoji, reactionPageSize, "", after)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reactions %s: %w", emoji, err)
		}
		for _, u := range page {
			users = append(users, command.User{ID: u.ID, Name: u.Username, Bot: u.Bot})
		}
		if len(page) < reactionPageSize {
			return users, nil
		}
		after = page[len(page)-1].ID
	}
}

func (g *discordGateway) SetStatus(text string) error {
	if err := g.session.UpdateGameStatus(0, text); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	g.mu.Lock()
	g.status = text
	g.mu.Unlock()
	return nil
}

func (g *discordGateway) Status() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

func (g *discordGateway) Close() error {
	err := g.session.UpdateStatusComplex(discordgo.UpdateStatusData{Status: string(discordgo.StatusOffline)})
	if err != nil {
		log.WithError(err).Warn("Failed to set offline status")
	}
	return g.session.Close()
}

func (g *discordGateway) Kick(guildID, userID string) error {
	return g.session.GuildMemberDelete(guildID, userID)
}

func (g *discordGateway) Ban(guildID, userID string) error {
	return g.session.GuildBanCreate(guildID, userID, 0)
}

func (g *discordGateway) Unban(guildID, userID string) error {
	return g.session.GuildBanDelete(guildID, userID)
}

// Purge deletes up to limit of the channel's most recent messages
func (g *discordGateway) Purge(channelID string, limit int) (int, error) {
	deleted := 0
	for deleted < limit {
		batch := limit - deleted
		if batch > 100 {
			batch = 100
		}

		msgs, err := g.session.ChannelMessages(channelID, batch, "", "", "")
		if err != nil {
			return deleted, fmt.Errorf("failed to fetch messages: %w", err)
		}
		if len(msgs) == 0 {
			break
		}

		ids := make([]string, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}
		if err := g.session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			return deleted, fmt.Errorf("failed to delete messages: %w", err)
		}
		deleted += len(ids)

		if len(msgs) < batch {
			break
		}
	}
	return deleted, nil
}

func (g *discordGateway) IsAdmin(guildID, channelID, userID string) bool {
	return common.IsUserAdmin(g.session, channelID, userID)
}

func (g *discordGateway) Guilds() []command.GuildInfo {
	g.session.State.RLock()
	defer g.session.State.RUnlock()

	guilds := make([]command.GuildInfo, 0, len(g.session.State.Guilds))
	for _, guild := range g.session.State.Guilds {
		guilds = append(guilds, command.GuildInfo{ID: guild.ID, Name: guild.Name})
	}
	return guilds
}

func (g *discordGateway) DisplayName(guildID, userID string) string {
	return common.GetDisplayName(g.session, guildID, userID)
}
