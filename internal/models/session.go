package models

import (
	"time"
)

// Session represents an authenticated session. Redis holds the hot copy;
// this row survives a cache restart and feeds the cleaner binary.
type Session struct {
	Token     string    `gorm:"primaryKey;type:varchar(64);column:token"`
	AccountID int64     `gorm:"not null;index;column:account_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at"`

	// Relationships
	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its expiry
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
