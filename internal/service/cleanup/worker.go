package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type GameSessionPruner interface {
	CleanupOldSessions()
}

type SessionRepository interface {
	DeleteExpiredSessions() (int64, error)
}

// Worker periodically prunes stale game sessions from memory and expired
// auth sessions from the database.
type Worker struct {
	games    GameSessionPruner
	sessions SessionRepository
	interval time.Duration
}

func NewWorker(games GameSessionPruner, sessions SessionRepository, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Worker{games: games, sessions: sessions, interval: interval}
}

// Run blocks until the context is cancelled. Start it in its own goroutine.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("cleanup worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *Worker) runOnce() {
	w.games.CleanupOldSessions()

	removed, err := w.sessions.DeleteExpiredSessions()
	if err != nil {
		log.Error().Err(err).Msg("failed to delete expired sessions")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("expired sessions deleted")
	}
}
