package models

import (
	"time"
)

// DefaultCommandPrefix is the prefix assigned to newly discovered guilds
const DefaultCommandPrefix = "!"

// Guild holds the persisted configuration of a server the bot has joined
type Guild struct {
	GuildID               int64     `db:"guild_id"`
	CommandPrefix         string    `db:"command_prefix"`
	AnnouncementChannelID *int64    `db:"announcement_channel_id"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// NewGuild returns a guild record with default configuration
func NewGuild(guildID int64) *Guild {
	return &Guild{
		GuildID:       guildID,
		CommandPrefix: DefaultCommandPrefix,
	}
}

// HasAnnouncementChannel reports whether an announcement channel is configured
func (g *Guild) HasAnnouncementChannel() bool {
	return g.AnnouncementChannelID != nil
}
