package models

import (
	"time"
)

// Contact represents a feedback form submission
type Contact struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name       string    `gorm:"type:varchar(100);not null;column:name"`
	Email      string    `gorm:"type:varchar(254);not null;column:email"`
	Subject    string    `gorm:"type:varchar(100);not null;default:'';column:subject"`
	Body       string    `gorm:"type:text;not null;column:body"`
	IsAnswered bool      `gorm:"not null;default:false;column:is_answered"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
