package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

type SessionRepo struct {
	DB *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

type UserSession struct {
	SessionID    string
	UserID       int64
	IsActive     bool
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

func (r *SessionRepo) CreateSession(userID int64, sessionID string, expiresAt time.Time) error {
	query := `
	INSERT INTO sessions (session_id, user_id, expires_at)
	VALUES ($1, $2, $3);
	`
	if _, err := r.DB.Exec(query, sessionID, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to create session: %v", err)
	}
	return nil
}

func (r *SessionRepo) GetSessionByID(sessionID string) (*UserSession, error) {
	query := `
	SELECT session_id, user_id, is_active, created_at, last_activity, expires_at
	FROM sessions WHERE session_id = $1;
	`
	var s UserSession
	err := r.DB.QueryRow(query, sessionID).Scan(&s.SessionID, &s.UserID, &s.IsActive,
		&s.CreatedAt, &s.LastActivity, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %v", err)
	}
	return &s, nil
}

// DeactivateSession marks one session logged out.
func (r *SessionRepo) DeactivateSession(sessionID string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET is_active = FALSE WHERE session_id = $1;`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %v", err)
	}
	return nil
}

// DeactivateAllUserSessions logs the user out everywhere; used when a new
// login supersedes old devices.
func (r *SessionRepo) DeactivateAllUserSessions(userID int64) error {
	_, err := r.DB.Exec(`UPDATE sessions SET is_active = FALSE WHERE user_id = $1;`, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user sessions: %v", err)
	}
	return nil
}

func (r *SessionRepo) UpdateSessionActivity(sessionID string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET last_activity = NOW() WHERE session_id = $1;`, sessionID)
	return err
}

// DeleteExpiredSessions removes rows past their expiry and returns how
// many were dropped.
func (r *SessionRepo) DeleteExpiredSessions() (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM sessions WHERE expires_at < NOW();`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %v", err)
	}
	return result.RowsAffected()
}
