package models

import (
	"time"
)

// CustomCommand is a guild-defined command that replies with fixed text
type CustomCommand struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	Name      string    `db:"name"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
