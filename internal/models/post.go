package models

import (
	"database/sql"
	"time"
)

// Post represents a published post
type Post struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Text        string        `gorm:"type:text;not null;column:text"`
	AuthorID    int64         `gorm:"not null;index;column:author_id"`
	GroupID     sql.NullInt64 `gorm:"index;column:group_id"`
	Image       string        `gorm:"type:varchar(1024);not null;default:'';column:image"`
	IsPublished bool          `gorm:"not null;default:true;column:is_published"`
	CreatedAt   time.Time     `gorm:"not null;index;column:created_at"`

	// Relationships
	Author   *Account  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Group    *Group    `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
