package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/domain"
	"github.com/droplogic/connect4/internal/repository/postgres"
	"github.com/droplogic/connect4/internal/solver"
	"github.com/droplogic/connect4/pkg/uid"
)

// engineMoveDelay makes engine replies feel like an opponent instead of
// an instant echo.
const engineMoveDelay = 500 * time.Millisecond

type ConnectionManagerInterface interface {
	SendMessage(userID int64, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(result postgres.GameResult, boardState [][]int) error
}

// GameSession is one human-versus-engine game. The mutex serializes all
// board access, which also guarantees the solver is never entered twice
// concurrently: the engine instance is private to the session and the
// solver's transposition table is not safe for concurrent use.
type GameSession struct {
	GameID         string
	PlayerID       int64
	PlayerUsername string
	EngineName     string
	Difficulty     string
	Board          *domain.Board
	Engine         *solver.Solver
	SearchDepth    int
	Reason         string
	CreatedAt      time.Time
	FinishedAt     time.Time
	mu             sync.Mutex
	repo           GameRepository
}

// SessionManager tracks the active game sessions.
type SessionManager struct {
	Session    map[string]*GameSession // gameID -> session
	UserToGame map[int64]string        // userID -> gameID
	mu         sync.RWMutex
	repo       GameRepository
}

func NewSessionManager(repo GameRepository) *SessionManager {
	return &SessionManager{
		Session:    make(map[string]*GameSession),
		UserToGame: make(map[int64]string),
		repo:       repo,
	}
}

// CreateSession starts a fresh game for the player, replacing any session
// they already had, and announces it over the connection.
func (sm *SessionManager) CreateSession(playerID int64, username, difficulty string, searchDepth int, conn ConnectionManagerInterface) *GameSession {
	sm.ForceCleanupForUser(playerID)

	gs := &GameSession{
		GameID:         uid.GenerateGameID(),
		PlayerID:       playerID,
		PlayerUsername: username,
		EngineName:     domain.GetEngineName(difficulty),
		Difficulty:     difficulty,
		Board:          domain.NewBoard(),
		Engine:         solver.New(),
		SearchDepth:    searchDepth,
		CreatedAt:      time.Now(),
		repo:           sm.repo,
	}

	sm.mu.Lock()
	sm.Session[gs.GameID] = gs
	sm.UserToGame[playerID] = gs.GameID
	sm.mu.Unlock()

	log.Info().Str("gameId", gs.GameID).Int64("playerId", playerID).
		Str("difficulty", difficulty).Int("depth", searchDepth).
		Msg("game session created")

	conn.SendMessage(playerID, domain.ServerMessage{
		Type:        "game_start",
		GameID:      gs.GameID,
		Opponent:    gs.EngineName,
		YourPlayer:  int(domain.Player1),
		CurrentTurn: int(gs.Board.CurrentPlayer()),
		Board:       gs.Board.Grid(),
	})

	return gs
}

func (sm *SessionManager) GetSessionByUserID(userID int64) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.UserToGame[userID]
	if !exists {
		return nil, false
	}
	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.Session[gameID]
	if !exists {
		return
	}
	delete(sm.UserToGame, session.PlayerID)
	delete(sm.Session, gameID)
}

// ForceCleanupForUser drops whatever session the user has, saving it as
// abandoned when the game was still running.
func (sm *SessionManager) ForceCleanupForUser(userID int64) {
	session, exists := sm.GetSessionByUserID(userID)
	if !exists {
		return
	}

	session.mu.Lock()
	if !session.Board.IsGameOver() && session.FinishedAt.IsZero() {
		session.finishLocked("engine", "abandoned")
	}
	session.mu.Unlock()

	sm.RemoveSession(session.GameID)
}

// CleanupOldSessions removes finished sessions after an hour and
// anything stuck active for a day. Run by the cleanup worker.
func (sm *SessionManager) CleanupOldSessions() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	now := time.Now()

	for gameID, session := range sm.Session {
		stale := false
		if !session.FinishedAt.IsZero() {
			stale = now.Sub(session.FinishedAt) > 1*time.Hour
		} else {
			stale = now.Sub(session.CreatedAt) > 24*time.Hour
		}
		if stale {
			delete(sm.Session, gameID)
			delete(sm.UserToGame, session.PlayerID)
			count++
		}
	}

	if count > 0 {
		log.Info().Int("removed", count).Msg("stale game sessions cleaned up")
	}
}

// HandleMove applies the player's move and, when the game goes on,
// schedules the engine's reply.
func (gs *GameSession) HandleMove(userID int64, column int, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if userID != gs.PlayerID {
		return domain.ErrNotYourTurn
	}
	if gs.Board.IsGameOver() || !gs.FinishedAt.IsZero() {
		return domain.ErrGameFinished
	}
	if gs.Board.CurrentPlayer() != domain.Player1 {
		return domain.ErrNotYourTurn
	}
	if !gs.Board.IsValidMove(column) {
		return domain.ErrInvalidMove
	}

	row := landingRow(gs.Board, column)
	gs.Board.MakeMove(column)

	conn.SendMessage(gs.PlayerID, domain.ServerMessage{
		Type:     "move_made",
		Column:   &column,
		Row:      &row,
		Player:   int(domain.Player1),
		Board:    gs.Board.Grid(),
		NextTurn: int(gs.Board.CurrentPlayer()),
	})

	if gs.Board.IsGameOver() {
		gs.finishLocked(winnerLabel(gs.Board), finishReason(gs.Board))
		gs.sendGameOver(conn)
		return nil
	}

	go func() {
		time.Sleep(engineMoveDelay)
		if err := gs.HandleEngineMove(conn); err != nil {
			log.Error().Err(err).Str("gameId", gs.GameID).Msg("engine move failed")
		}
	}()

	return nil
}

// HandleEngineMove runs the solver and applies its column. Entry point
// for the reply goroutine, so it takes the session lock itself.
func (gs *GameSession) HandleEngineMove(conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Board.IsGameOver() || !gs.FinishedAt.IsZero() || gs.Board.CurrentPlayer() != domain.Player2 {
		return nil
	}

	result, ok := gs.Engine.FindBestMove(gs.Board, gs.SearchDepth)
	if !ok {
		return domain.ErrInvalidMove
	}

	row := landingRow(gs.Board, result.Column)
	gs.Board.MakeMove(result.Column)

	msg := domain.ServerMessage{
		Type:     "engine_move",
		Column:   &result.Column,
		Row:      &row,
		Player:   int(domain.Player2),
		Board:    gs.Board.Grid(),
		NextTurn: int(gs.Board.CurrentPlayer()),
	}
	if result.Forced {
		moves := result.MovesToWin
		msg.MovesToWin = &moves
	}
	conn.SendMessage(gs.PlayerID, msg)

	if gs.Board.IsGameOver() {
		gs.finishLocked(winnerLabel(gs.Board), finishReason(gs.Board))
		gs.sendGameOver(conn)
	}

	return nil
}

// HandleResign ends the game in the engine's favor.
func (gs *GameSession) HandleResign(userID int64, conn ConnectionManagerInterface) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if userID != gs.PlayerID {
		return domain.ErrNotYourTurn
	}
	if !gs.FinishedAt.IsZero() {
		return domain.ErrGameFinished
	}

	gs.finishLocked("engine", "resignation")
	gs.sendGameOver(conn)
	return nil
}

// finishLocked records the outcome and persists the game. Caller holds
// the session lock.
func (gs *GameSession) finishLocked(winner, reason string) {
	gs.FinishedAt = time.Now()
	gs.Reason = reason

	result := postgres.GameResult{
		GameID:          gs.GameID,
		PlayerID:        gs.PlayerID,
		PlayerUsername:  gs.PlayerUsername,
		EngineName:      gs.EngineName,
		Difficulty:      gs.Difficulty,
		Winner:          winner,
		Reason:          reason,
		TotalMoves:      gs.Board.MoveCount(),
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
	}
	boardState := gs.Board.Grid()

	// persisted in the background so the game_over push is not delayed
	go func() {
		if err := gs.repo.SaveGame(result, boardState); err != nil {
			log.Error().Err(err).Str("gameId", result.GameID).Msg("failed to save game")
		} else {
			log.Info().Str("gameId", result.GameID).Str("winner", winner).Msg("game saved")
		}
	}()
}

func (gs *GameSession) sendGameOver(conn ConnectionManagerInterface) {
	winnerName := ""
	switch winnerLabel(gs.Board) {
	case "player":
		winnerName = gs.PlayerUsername
	case "engine":
		winnerName = gs.EngineName
	default:
		winnerName = "draw"
	}
	if gs.Reason == "resignation" || gs.Reason == "abandoned" {
		winnerName = gs.EngineName
	}

	conn.SendMessage(gs.PlayerID, domain.ServerMessage{
		Type:   "game_over",
		Winner: winnerName,
		Reason: gs.Reason,
		Board:  gs.Board.Grid(),
	})
}

// landingRow reports the row a disk dropped into the column will occupy.
// Must be called before the move is made.
func landingRow(b *domain.Board, column int) int {
	for row := domain.Rows - 1; row >= 0; row-- {
		if b.Cell(row, column) == domain.Empty {
			return row
		}
	}
	return -1
}

func winnerLabel(b *domain.Board) string {
	switch b.Winner() {
	case domain.Player1:
		return "player"
	case domain.Player2:
		return "engine"
	}
	return "draw"
}

func finishReason(b *domain.Board) string {
	if b.Winner() != domain.Empty {
		return "connect_four"
	}
	return "draw"
}
