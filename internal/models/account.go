package models

import (
	"database/sql"
	"time"
)

// Account represents a registered user
type Account struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:accounts_username_ux;column:username"`
	Email        string    `gorm:"type:varchar(254);not null;column:email"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`

	// Profile fields
	FirstName sql.NullString `gorm:"type:varchar(150);column:first_name"`
	LastName  sql.NullString `gorm:"type:varchar(150);column:last_name"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
