package follow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/logging"
)

var (
	// ErrSelfFollow is returned when a reader tries to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// Graph maintains the directed follow edges between readers and authors
type Graph struct {
	follows *db.FollowRepository
	logger  *zap.Logger
}

// NewGraph creates a new follow graph
func NewGraph(repo *db.Repository) *Graph {
	return &Graph{
		follows: db.NewFollowRepository(repo),
		logger:  logging.GetLogger().With(zap.String("component", "follow-graph")),
	}
}

// Follow inserts the edge if absent. Following an already-followed author is
// a no-op, not an error; following yourself is rejected.
func (g *Graph) Follow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrSelfFollow
	}

	if err := g.follows.Create(ctx, userID, authorID); err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}

	g.logger.Debug("Follow edge ensured",
		zap.Int64("user_id", userID),
		zap.Int64("author_id", authorID))

	return nil
}

// Unfollow removes the edge if present; removing an absent edge is a no-op
func (g *Graph) Unfollow(ctx context.Context, userID, authorID int64) error {
	if err := g.follows.Delete(ctx, userID, authorID); err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	g.logger.Debug("Follow edge removed",
		zap.Int64("user_id", userID),
		zap.Int64("author_id", authorID))

	return nil
}

// IsFollowing reports whether the edge exists. Anonymous viewers (id 0)
// follow nobody.
func (g *Graph) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return g.follows.Exists(ctx, userID, authorID)
}

// Counts returns an author's follower count and how many authors they follow
func (g *Graph) Counts(ctx context.Context, accountID int64) (followers, following int64, err error) {
	followers, err = g.follows.CountFollowers(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}
	following, err = g.follows.CountFollowing(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
