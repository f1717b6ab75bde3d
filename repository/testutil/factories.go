package testutil

import (
	"aoba/models"
)

// CreateTestGuild creates a guild with the default prefix
func CreateTestGuild(guildID int64) *models.Guild {
	return models.NewGuild(guildID)
}

// CreateTestGuildWithChannel creates a guild with an announcement channel
func CreateTestGuildWithChannel(guildID, channelID int64) *models.Guild {
	guild := CreateTestGuild(guildID)
	guild.AnnouncementChannelID = &channelID
	return guild
}

// CreateTestCustomCommand creates an unsaved custom command
func CreateTestCustomCommand(guildID int64, name, text string) *models.CustomCommand {
	return &models.CustomCommand{
		GuildID: guildID,
		Name:    name,
		Text:    text,
	}
}

// CreateTestUserBalance creates an unsaved balance
func CreateTestUserBalance(userID, balance int64) *models.UserBalance {
	return &models.UserBalance{
		UserID:  userID,
		Balance: balance,
	}
}
