package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

// Store issues and resolves session tokens
type Store interface {
	Create(ctx context.Context, accountID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

// SessionStore keeps sessions in redis with a Postgres row behind it, so
// sessions survive a cache restart and the cleaner can purge expired ones
type SessionStore struct {
	cache    *cache.Cache
	sessions *db.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(repo *db.Repository, redisCache *cache.Cache, cfg *config.AuthConfig) *SessionStore {
	return &SessionStore{
		cache:    redisCache,
		sessions: db.NewSessionRepository(repo),
		ttl:      cfg.SessionTTL,
		logger:   logging.GetLogger().With(zap.String("component", "session-store")),
	}
}

// Create issues a fresh session token for an account
func (s *SessionStore) Create(ctx context.Context, accountID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &models.Session{
		Token:     token,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	if err := s.cache.Set(sessionKey(token), accountID, s.ttl); err != nil && err != cache.ErrCacheDisabled {
		// The Postgres row still resolves; redis is a fast path only
		s.logger.Warn("Failed to cache session", zap.Error(err))
	}

	return token, nil
}

// Resolve returns the account ID behind a token, or 0 for an unknown or
// expired session
func (s *SessionStore) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}

	if raw, err := s.cache.Get(sessionKey(token)); err == nil {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id, nil
		}
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if session == nil || session.Expired(time.Now().UTC()) {
		return 0, nil
	}

	// Backfill the fast path for the session's remaining lifetime
	remaining := time.Until(session.ExpiresAt)
	if err := s.cache.Set(sessionKey(token), session.AccountID, remaining); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to cache session", zap.Error(err))
	}

	return session.AccountID, nil
}

// Destroy removes a session from both stores
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.cache.Delete(sessionKey(token)); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("Failed to evict session", zap.Error(err))
	}
	return s.sessions.Delete(ctx, token)
}

func sessionKey(token string) string {
	return "session:" + token
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
