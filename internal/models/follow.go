package models

import (
	"time"
)

// Follow represents a directed follow edge from a reader to an author.
// The composite primary key guarantees at most one edge per pair.
type Follow struct {
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	AuthorID  int64     `gorm:"primaryKey;column:author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User   *Account `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Author *Account `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
