package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash sql.NullString // NULL for OAuth-only accounts
	GoogleID     sql.NullString
	GamesPlayed  int
	GamesWon     int
	CreatedAt    time.Time
}

func (r *UserRepo) CreateUser(username, email, passwordHash string) (*User, error) {
	query := `
	INSERT INTO players (username, email, password_hash)
	VALUES ($1, $2, $3)
	RETURNING id, username, email, password_hash, google_id, games_played, games_won, created_at;
	`
	return r.scanUser(r.DB.QueryRow(query, username, email, passwordHash))
}

// CreateGoogleUser creates an account with no password for an OAuth
// signup.
func (r *UserRepo) CreateGoogleUser(username, email, googleID string) (*User, error) {
	query := `
	INSERT INTO players (username, email, google_id)
	VALUES ($1, $2, $3)
	RETURNING id, username, email, password_hash, google_id, games_played, games_won, created_at;
	`
	return r.scanUser(r.DB.QueryRow(query, username, email, googleID))
}

func (r *UserRepo) GetUserByUsername(username string) (*User, error) {
	query := `
	SELECT id, username, email, password_hash, google_id, games_played, games_won, created_at
	FROM players WHERE username = $1;
	`
	return r.getOne(query, username)
}

func (r *UserRepo) GetUserByEmail(email string) (*User, error) {
	query := `
	SELECT id, username, email, password_hash, google_id, games_played, games_won, created_at
	FROM players WHERE email = $1;
	`
	return r.getOne(query, email)
}

func (r *UserRepo) GetUserByID(id int64) (*User, error) {
	query := `
	SELECT id, username, email, password_hash, google_id, games_played, games_won, created_at
	FROM players WHERE id = $1;
	`
	return r.getOne(query, id)
}

// UpdateUserGoogleID links a Google identity to an existing account.
func (r *UserRepo) UpdateUserGoogleID(email, googleID string) error {
	_, err := r.DB.Exec(`UPDATE players SET google_id = $2 WHERE email = $1;`, email, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google id: %v", err)
	}
	return nil
}

// LeaderboardEntry is one row of the win-count leaderboard.
type LeaderboardEntry struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}

func (r *UserRepo) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT username, games_played, games_won
	FROM players
	WHERE games_played > 0
	ORDER BY games_won DESC, games_played ASC
	LIMIT $1;
	`
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %v", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.GamesPlayed, &e.GamesWon); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *UserRepo) getOne(query string, arg interface{}) (*User, error) {
	user, err := r.scanUser(r.DB.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepo) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GoogleID,
		&u.GamesPlayed, &u.GamesWon, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
