package repository

import (
	"context"
	"errors"
	"fmt"

	"aoba/database"
	"aoba/models"

	"github.com/jackc/pgx/v5"
)

const guildColumns = `guild_id, command_prefix, announcement_channel_id, created_at, updated_at`

// GuildRepository implements the GuildRepository interface
type GuildRepository struct {
	q queryable
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(db *database.DB) *GuildRepository {
	return &GuildRepository{q: db.Pool}
}

// newGuildRepositoryWithTx creates a new guild repository with a transaction
func newGuildRepositoryWithTx(tx queryable) *GuildRepository {
	return &GuildRepository{q: tx}
}

// GetAll returns every persisted guild
func (r *GuildRepository) GetAll(ctx context.Context) ([]*models.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds ORDER BY guild_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query guilds: %w", err)
	}
	defer rows.Close()

	var guilds []*models.Guild
	for rows.Next() {
		guild, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild: %w", err)
		}
		guilds = append(guilds, guild)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guilds: %w", err)
	}

	return guilds, nil
}

// GetByID retrieves a guild by its Discord ID
func (r *GuildRepository) GetByID(ctx context.Context, guildID int64) (*models.Guild, error) {
	query := `SELECT ` + guildColumns + ` FROM guilds WHERE guild_id = $1`

	guild, err := scanGuild(r.q.QueryRow(ctx, query, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild %d: %w", guildID, err)
	}

	return guild, nil
}

// Create inserts the guild unless a record with the same ID exists.
// It reports whether a row was inserted.
func (r *GuildRepository) Create(ctx context.Context, guild *models.Guild) (bool, error) {
	query := `
		INSERT INTO guilds (guild_id, command_prefix, announcement_channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, guild.GuildID, guild.CommandPrefix, guild.AnnouncementChannelID)
	if err != nil {
		return false, fmt.Errorf("failed to create guild %d: %w", guild.GuildID, err)
	}

	return result.RowsAffected() == 1, nil
}

// Update saves the prefix and announcement channel of a guild
func (r *GuildRepository) Update(ctx context.Context, guild *models.Guild) error {
	query := `
		UPDATE guilds
		SET command_prefix = $2, announcement_channel_id = $3
		WHERE guild_id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, guild.GuildID, guild.CommandPrefix, guild.AnnouncementChannelID).Scan(&guild.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("guild %d not found", guild.GuildID)
	}
	if err != nil {
		return fmt.Errorf("failed to update guild %d: %w", guild.GuildID, err)
	}

	return nil
}

func scanGuild(row pgx.Row) (*models.Guild, error) {
	var guild models.Guild
	err := row.Scan(
		&guild.GuildID,
		&guild.CommandPrefix,
		&guild.AnnouncementChannelID,
		&guild.CreatedAt,
		&guild.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &guild, nil
}
