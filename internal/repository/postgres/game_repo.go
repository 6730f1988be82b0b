package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameResult represents one finished game against the engine.
type GameResult struct {
	GameID          string
	PlayerID        int64
	PlayerUsername  string
	EngineName      string
	Difficulty      string
	Winner          string // "player", "engine" or "draw"
	Reason          string
	TotalMoves      int
	DurationSeconds int
	CreatedAt       time.Time
	FinishedAt      time.Time
}

// SaveGame stores a finished game and updates the player's stats in one
// transaction. The upsert guards against double saves when a session is
// torn down from two paths at once.
func (r *GameRepo) SaveGame(result GameResult, boardState [][]int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	statsQuery := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 THEN 1 ELSE 0 END
	WHERE id = $1;
	`
	if _, err := tx.Exec(statsQuery, result.PlayerID, result.Winner == "player"); err != nil {
		return fmt.Errorf("failed to update player stats: %v", err)
	}

	boardJSON, err := json.Marshal(boardState)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %v", err)
	}

	gameQuery := `
	INSERT INTO games (game_id, player_id, player_username, engine_name, difficulty,
	                   winner, reason, total_moves, duration_seconds, board_state,
	                   created_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at;
	`
	_, err = tx.Exec(gameQuery, result.GameID, result.PlayerID, result.PlayerUsername,
		result.EngineName, result.Difficulty, result.Winner, result.Reason,
		result.TotalMoves, result.DurationSeconds, boardJSON,
		result.CreatedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// GetUserGameHistory returns the player's finished games, newest first.
func (r *GameRepo) GetUserGameHistory(userID int64, limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT game_id, player_id, player_username, engine_name, difficulty,
	       winner, reason, total_moves, duration_seconds, created_at, finished_at
	FROM games
	WHERE player_id = $1
	ORDER BY created_at DESC
	LIMIT $2;
	`

	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %v", err)
	}
	defer rows.Close()

	var history []GameResult
	for rows.Next() {
		var g GameResult
		if err := rows.Scan(&g.GameID, &g.PlayerID, &g.PlayerUsername, &g.EngineName,
			&g.Difficulty, &g.Winner, &g.Reason, &g.TotalMoves, &g.DurationSeconds,
			&g.CreatedAt, &g.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %v", err)
		}
		history = append(history, g)
	}
	return history, rows.Err()
}

// GetGameByID retrieves one game with its final board state.
func (r *GameRepo) GetGameByID(gameID string) (*GameResult, [][]int, error) {
	query := `
	SELECT game_id, player_id, player_username, engine_name, difficulty,
	       winner, reason, total_moves, duration_seconds, board_state,
	       created_at, finished_at
	FROM games
	WHERE game_id = $1;
	`

	var g GameResult
	var boardJSON []byte
	err := r.DB.QueryRow(query, gameID).Scan(&g.GameID, &g.PlayerID, &g.PlayerUsername,
		&g.EngineName, &g.Difficulty, &g.Winner, &g.Reason, &g.TotalMoves,
		&g.DurationSeconds, &boardJSON, &g.CreatedAt, &g.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query game: %v", err)
	}

	var board [][]int
	if err := json.Unmarshal(boardJSON, &board); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal board state: %v", err)
	}

	return &g, board, nil
}
