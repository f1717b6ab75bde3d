package command

// User is a chat user as seen through the gateway
type User struct {
	ID   string
	Name string
	Bot  bool
}

// GuildInfo identifies a joined guild
type GuildInfo struct {
	ID   string
	Name string
}

// Gateway is the set of chat platform effects the commands depend on
type Gateway interface {
	// Send posts a message and returns its ID
	Send(channelID, content string) (string, error)

	// React adds a reaction from the bot to a message
	React(channelID, messageID, emoji string) error

	// ReactionUsers lists the users that reacted to a message with emoji
	ReactionUsers(channelID, messageID, emoji string) ([]User, error)

	// SetStatus changes the bot's activity text
	SetStatus(text string) error

	// Status returns the current activity text
	Status() string

	// Close disconnects from the gateway
	Close() error

	Kick(guildID, userID string) error
	Ban(guildID, userID string) error
	Unban(guildID, userID string) error

	// Purge deletes up to limit recent messages of a channel and returns how many were removed
	Purge(channelID string, limit int) (int, error)

	// IsAdmin reports whether the user has the administrator permission in the guild
	IsAdmin(guildID, channelID, userID string) bool

	// Guilds lists the guilds the bot is currently a member of
	Guilds() []GuildInfo

	// DisplayName returns the user's name in the guild, falling back to the ID
	DisplayName(guildID, userID string) string
}
