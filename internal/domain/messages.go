package domain

// ClientMessage is the envelope for everything a player sends over the
// websocket.
type ClientMessage struct {
	Type       string `json:"type"`
	JWT        string `json:"jwt,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Column     int    `json:"column"`
}

// ServerMessage is the envelope for everything pushed to a player. Fields
// are omitted when not relevant to the message type.
type ServerMessage struct {
	Type        string  `json:"type"`
	GameID      string  `json:"gameId,omitempty"`
	Opponent    string  `json:"opponent,omitempty"`
	YourPlayer  int     `json:"yourPlayer,omitempty"`
	CurrentTurn int     `json:"currentTurn,omitempty"`
	Board       [][]int `json:"board,omitempty"`
	Column      *int    `json:"column,omitempty"`
	Row         *int    `json:"row,omitempty"`
	Player      int     `json:"player,omitempty"`
	NextTurn    int     `json:"nextTurn,omitempty"`
	Winner      string  `json:"winner,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	// MovesToWin is set on engine_move when the search proved a forced
	// outcome: the number of plies until the game ends with best play.
	MovesToWin *int   `json:"movesToWin,omitempty"`
	Message    string `json:"message,omitempty"`
}
