package models

import (
	"time"
)

// UserBalance is a user's bank balance. It is global, not scoped to a guild,
// and may be negative.
type UserBalance struct {
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Exists reports whether the balance has been persisted
func (b *UserBalance) Exists() bool {
	return !b.CreatedAt.IsZero()
}
