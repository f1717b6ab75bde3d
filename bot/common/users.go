package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
	}
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			if member.User.GlobalName != "" {
				return member.User.GlobalName
			}
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// IsUserAdmin checks if a user has administrator permissions in the channel's guild
func IsUserAdmin(s *discordgo.Session, channelID, userID string) bool {
	perms, err := s.UserChannelPermissions(userID, channelID)
	if err != nil {
		log.WithFields(log.Fields{
			"userID":    userID,
			"channelID": channelID,
			"error":     err,
		}).Error("Failed to get channel permissions")
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}
