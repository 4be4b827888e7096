package entity

import "time"

// Idempotency remembers the group created by a request carrying an
// Idempotency-Key, so that a retried request returns the same group instead of
// creating a duplicate. The record is inserted before the group is created and
// is Completed in the transaction creating the group.
type Idempotency struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_idempotencies_user_guild_key,priority:1"`
	GuildID   string    `gorm:"not null;uniqueIndex:idx_idempotencies_user_guild_key,priority:2"`
	Key       string    `gorm:"column:idempotency_key;not null;uniqueIndex:idx_idempotencies_user_guild_key,priority:3"`
	GroupID   string    `gorm:"not null"`
	Completed bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index"`
}
