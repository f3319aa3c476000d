package db

import (
	"context"

	"github.com/yatube/yatube/internal/models"
)

// ContactRepository provides feedback-form database operations
type ContactRepository struct {
	*Repository
}

// NewContactRepository creates a new contact repository
func NewContactRepository(repo *Repository) *ContactRepository {
	return &ContactRepository{Repository: repo}
}

// Create stores a feedback submission
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// ListUnanswered retrieves submissions awaiting a reply, oldest first
func (r *ContactRepository) ListUnanswered(ctx context.Context, limit int) ([]*models.Contact, error) {
	var contacts []*models.Contact
	if err := r.db.WithContext(ctx).
		Where("is_answered = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// MarkAnswered flags a submission as handled
func (r *ContactRepository) MarkAnswered(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Update("is_answered", true).Error
}
