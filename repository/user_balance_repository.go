package repository

import (
	"context"
	"errors"
	"fmt"

	"aoba/database"
	"aoba/models"

	"github.com/jackc/pgx/v5"
)

// UserBalanceRepository implements the UserBalanceRepository interface
type UserBalanceRepository struct {
	q queryable
}

// NewUserBalanceRepository creates a new user balance repository
func NewUserBalanceRepository(db *database.DB) *UserBalanceRepository {
	return &UserBalanceRepository{q: db.Pool}
}

// newUserBalanceRepositoryWithTx creates a new user balance repository with a transaction
func newUserBalanceRepositoryWithTx(tx queryable) *UserBalanceRepository {
	return &UserBalanceRepository{q: tx}
}

// GetByUserID retrieves a user's balance
func (r *UserBalanceRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserBalance, error) {
	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM user_balances
		WHERE user_id = $1
	`

	var balance models.UserBalance
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&balance.UserID,
		&balance.Balance,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of user %d: %w", userID, err)
	}

	return &balance, nil
}

// GetForUpdate retrieves a user's balance and locks the row for the rest of
// the transaction. A missing row is inserted with a zero balance first so
// concurrent writers for a new user serialize on it.
func (r *UserBalanceRepository) GetForUpdate(ctx context.Context, userID int64) (*models.UserBalance, error) {
	insert := `
		INSERT INTO user_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create balance of user %d: %w", userID, err)
	}

	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM user_balances
		WHERE user_id = $1
		FOR UPDATE
	`

	var balance models.UserBalance
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&balance.UserID,
		&balance.Balance,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance of user %d: %w", userID, err)
	}

	return &balance, nil
}

// Upsert saves the balance, creating the row if needed
func (r *UserBalanceRepository) Upsert(ctx context.Context, balance *models.UserBalance) (*models.UserBalance, error) {
	query := `
		INSERT INTO user_balances (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance
		RETURNING user_id, balance, created_at, updated_at
	`

	var saved models.UserBalance
	err := r.q.QueryRow(ctx, query, balance.UserID, balance.Balance).Scan(
		&saved.UserID,
		&saved.Balance,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save balance of user %d: %w", balance.UserID, err)
	}

	return &saved, nil
}
