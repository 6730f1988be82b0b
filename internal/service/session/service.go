package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/config"
	"github.com/droplogic/connect4/internal/repository/postgres"
	"github.com/droplogic/connect4/pkg/auth"
	"github.com/droplogic/connect4/pkg/uid"
)

const sessionKeyPrefix = "session:"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionInactive = errors.New("session expired or logged out")
)

type SessionRepository interface {
	CreateSession(userID int64, sessionID string, expiresAt time.Time) error
	GetSessionByID(sessionID string) (*postgres.UserSession, error)
	DeactivateSession(sessionID string) error
	DeactivateAllUserSessions(userID int64) error
	UpdateSessionActivity(sessionID string) error
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// AuthService owns the login-session lifecycle: one active session per
// user, validated on every request, cached in redis when available.
type AuthService struct {
	repo  SessionRepository
	cache CacheRepository // optional, may be nil
}

func NewAuthService(repo SessionRepository, cache CacheRepository) *AuthService {
	return &AuthService{repo: repo, cache: cache}
}

// StartSession deactivates the user's previous sessions, records a new
// one and returns a signed access token for it.
func (s *AuthService) StartSession(userID int64, username string) (string, error) {
	if err := s.repo.DeactivateAllUserSessions(userID); err != nil {
		return "", err
	}

	sessionID, err := uid.GenerateSessionID()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(config.AppConfig.SessionTTL)
	if err := s.repo.CreateSession(userID, sessionID, expiresAt); err != nil {
		return "", err
	}

	s.cacheSession(&postgres.UserSession{
		SessionID: sessionID,
		UserID:    userID,
		IsActive:  true,
		ExpiresAt: expiresAt,
	})

	return auth.GenerateJWT(userID, username, sessionID)
}

// ValidateToken checks the JWT signature, then the backing session: it
// must exist, be active and be unexpired.
func (s *AuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := auth.ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	sess, err := s.getSession(claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !sess.IsActive || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionInactive
	}

	// non-blocking activity touch
	go s.repo.UpdateSessionActivity(claims.SessionID)

	return claims, nil
}

// EndSession logs a session out and drops its cache entry.
func (s *AuthService) EndSession(sessionID string) error {
	if s.cache != nil {
		if err := s.cache.Del(context.Background(), sessionKeyPrefix+sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to evict session from cache")
		}
	}
	return s.repo.DeactivateSession(sessionID)
}

func (s *AuthService) getSession(sessionID string) (*postgres.UserSession, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(context.Background(), sessionKeyPrefix+sessionID); err == nil && raw != "" {
			var sess postgres.UserSession
			if err := json.Unmarshal([]byte(raw), &sess); err == nil {
				return &sess, nil
			}
		}
	}

	sess, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		s.cacheSession(sess)
	}
	return sess, nil
}

func (s *AuthService) cacheSession(sess *postgres.UserSession) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(context.Background(), sessionKeyPrefix+sess.SessionID, raw, ttl); err != nil {
		log.Warn().Err(err).Msg("failed to cache session")
	}
}
