package repository

import (
	"context"
	"errors"
	"fmt"

	"aoba/database"
	"aoba/models"

	"github.com/jackc/pgx/v5"
)

const customCommandColumns = `id, guild_id, name, text, created_at, updated_at`

// CustomCommandRepository implements the CustomCommandRepository interface
type CustomCommandRepository struct {
	q queryable
}

// NewCustomCommandRepository creates a new custom command repository
func NewCustomCommandRepository(db *database.DB) *CustomCommandRepository {
	return &CustomCommandRepository{q: db.Pool}
}

// newCustomCommandRepositoryWithTx creates a new custom command repository with a transaction
func newCustomCommandRepositoryWithTx(tx queryable) *CustomCommandRepository {
	return &CustomCommandRepository{q: tx}
}

// GetAll returns the custom commands of every guild
func (r *CustomCommandRepository) GetAll(ctx context.Context) ([]*models.CustomCommand, error) {
	query := `SELECT ` + customCommandColumns + ` FROM custom_commands ORDER BY guild_id, name`
	return r.list(ctx, query)
}

// GetByGuildAndName retrieves a single command
func (r *CustomCommandRepository) GetByGuildAndName(ctx context.Context, guildID int64, name string) (*models.CustomCommand, error) {
	query := `SELECT ` + customCommandColumns + ` FROM custom_commands WHERE guild_id = $1 AND name = $2`

	cmd, err := scanCustomCommand(r.q.QueryRow(ctx, query, guildID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom command %q of guild %d: %w", name, guildID, err)
	}

	return cmd, nil
}

// Upsert inserts the command, replacing the text of an existing one with the same name in the guild
func (r *CustomCommandRepository) Upsert(ctx context.Context, cmd *models.CustomCommand) (*models.CustomCommand, error) {
	query := `
		INSERT INTO custom_commands (guild_id, name, text)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT custom_commands_guild_name_key
		DO UPDATE SET text = EXCLUDED.text
		RETURNING ` + customCommandColumns

	saved, err := scanCustomCommand(r.q.QueryRow(ctx, query, cmd.GuildID, cmd.Name, cmd.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert custom command %q of guild %d: %w", cmd.Name, cmd.GuildID, err)
	}

	return saved, nil
}

// Delete removes a command, reporting whether it existed
func (r *CustomCommandRepository) Delete(ctx context.Context, guildID int64, name string) (bool, error) {
	query := `DELETE FROM custom_commands WHERE guild_id = $1 AND name = $2`

	result, err := r.q.Exec(ctx, query, guildID, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete custom command %q of guild %d: %w", name, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// ExistsByName reports whether any guild defines a command with this name
func (r *CustomCommandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM custom_commands WHERE name = $1)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check custom command name %q: %w", name, err)
	}

	return exists, nil
}

func (r *CustomCommandRepository) list(ctx context.Context, query string, args ...any) ([]*models.CustomCommand, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom commands: %w", err)
	}
	defer rows.Close()

	var cmds []*models.CustomCommand
	for rows.Next() {
		cmd, err := scanCustomCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan custom command: %w", err)
		}
		cmds = append(cmds, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating custom commands: %w", err)
	}

	return cmds, nil
}

func scanCustomCommand(row pgx.Row) (*models.CustomCommand, error) {
	var cmd models.CustomCommand
	err := row.Scan(
		&cmd.ID,
		&cmd.GuildID,
		&cmd.Name,
		&cmd.Text,
		&cmd.CreatedAt,
		&cmd.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}
