package service

import (
	"context"

	"aoba/events"
	"aoba/models"
)

// GuildRepository defines the interface for guild data access
type GuildRepository interface {
	// GetAll returns every persisted guild
	GetAll(ctx context.Context) ([]*models.Guild, error)

	// GetByID retrieves a guild by its Discord ID, nil if absent
	GetByID(ctx context.Context, guildID int64) (*models.Guild, error)

	// Create inserts a guild, reporting false if it already existed
	Create(ctx context.Context, guild *models.Guild) (bool, error)

	// Update saves the mutable configuration of a guild
	Update(ctx context.Context, guild *models.Guild) error
}

// CustomCommandRepository defines the interface for custom command data access
type CustomCommandRepository interface {
	// GetAll returns the custom commands of every guild
	GetAll(ctx context.Context) ([]*models.CustomCommand, error)

	// GetByGuildAndName retrieves a single command, nil if absent
	GetByGuildAndName(ctx context.Context, guildID int64, name string) (*models.CustomCommand, error)

	// Upsert inserts the command or replaces the text of the existing one with the same name
	Upsert(ctx context.Context, cmd *models.CustomCommand) (*models.CustomCommand, error)

	// Delete removes a command, reporting false if it did not exist
	Delete(ctx context.Context, guildID int64, name string) (bool, error)

	// ExistsByName reports whether any guild still defines a command with this name
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// UserBalanceRepository defines the interface for user balance data access
type UserBalanceRepository interface {
	// GetByUserID retrieves a balance, nil if the user has none
	GetByUserID(ctx context.Context, userID int64) (*models.UserBalance, error)

	// GetForUpdate retrieves a balance, creating a zero one, and locks it until the transaction ends
	GetForUpdate(ctx context.Context, userID int64) (*models.UserBalance, error)

	// Upsert saves the balance, creating the row if needed
	Upsert(ctx context.Context, balance *models.UserBalance) (*models.UserBalance, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	GuildRepository() GuildRepository
	CustomCommandRepository() CustomCommandRepository
	UserBalanceRepository() UserBalanceRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// GuildService defines guild configuration and reconciliation operations
type GuildService interface {
	// Reconcile inserts default records for connected guilds that have none
	// and returns the IDs it inserted
	Reconcile(ctx context.Context, connectedGuildIDs []int64) ([]int64, error)

	// EnsureGuild creates the default record for a single guild if missing
	EnsureGuild(ctx context.Context, guildID int64) (bool, error)

	// GetPrefix returns the guild's command prefix, or the default one if the guild is unknown
	GetPrefix(ctx context.Context, guildID int64) (string, error)

	// SetPrefix changes the guild's command prefix
	SetPrefix(ctx context.Context, guildID int64, prefix string) error

	// SetAnnouncementChannel sets or, with nil, clears the announcement channel
	SetAnnouncementChannel(ctx context.Context, guildID int64, channelID *int64) error

	// AnnouncementChannels maps guild IDs to their announcement channel
	AnnouncementChannels(ctx context.Context) (map[int64]int64, error)
}

// CustomCommandService defines custom command operations
type CustomCommandService interface {
	// ListAll returns the custom commands of every guild
	ListAll(ctx context.Context) ([]*models.CustomCommand, error)

	// Add creates the command or replaces its text
	Add(ctx context.Context, guildID, authorID int64, name, text string) (*models.CustomCommand, error)

	// Delete removes the command and reports whether another guild still uses the name
	Delete(ctx context.Context, guildID, authorID int64, name string) (bool, error)

	// GetText returns the current reply text of a command
	GetText(ctx context.Context, guildID int64, name string) (string, error)
}

// EconomyService defines user balance operations
type EconomyService interface {
	// GetBalance returns the user's balance or ErrNotFound
	GetBalance(ctx context.Context, userID int64) (*models.UserBalance, error)

	// Deposit adds value to the user's balance, creating it if needed
	Deposit(ctx context.Context, userID int64, value int64) (*models.UserBalance, error)

	// Withdraw subtracts value from the user's balance; the result may be negative
	Withdraw(ctx context.Context, userID int64, value int64) (*models.UserBalance, error)

	// SettleBet charges every loser the stake and splits the pot between the winners
	SettleBet(ctx context.Context, guildID int64, betID, name string, winnerIDs, loserIDs []int64) (*models.BetOutcome, error)
}
