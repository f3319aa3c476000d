package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yatube/yatube/internal/models"
)

// SessionRepository provides session database operations
type SessionRepository struct {
	*Repository
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(repo *Repository) *SessionRepository {
	return &SessionRepository{Repository: repo}
}

// Create stores a session row
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByToken retrieves a session by token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions past their expiry and returns the count
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
