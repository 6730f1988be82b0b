package domain

// PlayerID identifies the owner of a cell. Empty doubles as "no winner".
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Calling it on Empty returns Empty.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrColumnFull   Error = "column is full"
	ErrGameFinished Error = "game is finished"
	ErrNotYourTurn  Error = "not your turn"
)

// EngineNames maps a difficulty level to the display name the engine
// plays under.
var EngineNames = map[string]string{
	"easy":   "Rookie",
	"medium": "Challenger",
	"hard":   "Grandmaster",
}

func GetEngineName(difficulty string) string {
	if name, ok := EngineNames[difficulty]; ok {
		return name
	}
	return "ENGINE"
}
