package db

import (
	"context"

	"github.com/yatube/yatube/internal/models"
)

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Create inserts a follow edge if absent. The insert is atomic, so two
// concurrent follows for the same pair leave exactly one edge.
func (r *FollowRepository) Create(ctx context.Context, userID, authorID int64) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (user_id, author_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, author_id) DO NOTHING`,
		userID, authorID,
	).Error
}

// Delete removes a follow edge if present
func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// Exists reports whether a follow edge exists
func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFollowers returns how many readers follow an author
func (r *FollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CountFollowing returns how many authors a reader follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
