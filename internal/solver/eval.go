package solver

import "github.com/droplogic/connect4/internal/domain"

// Static evaluation weights. Player1 is the maximizing side, so Player1
// material scores positive and Player2 negative.
const (
	winScore         = 1000
	threeInWindow    = 10
	twoInWindow      = 2
	centerDiskBonus  = 3
	outcomeUnknown   = int8(-1)
	outcomeImmediate = int8(0)
)

// Evaluate returns the static score of a position from Player1's
// perspective, the same number the search uses at its horizon.
func Evaluate(b *domain.Board) int {
	return evaluate(b).score
}

// evaluate scores a position for the maximizing player (Player1). Terminal
// positions get the fixed win/loss/draw score with a known outcome zero
// plies away; anything else gets the windowed heuristic with the outcome
// left unknown.
func evaluate(b *domain.Board) evalResult {
	switch b.Winner() {
	case domain.Player1:
		return evalResult{score: winScore, plies: outcomeImmediate}
	case domain.Player2:
		return evalResult{score: -winScore, plies: outcomeImmediate}
	}

	if b.IsGameOver() {
		return evalResult{plies: outcomeImmediate} // draw
	}

	score := 0
	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			score += evaluateWindow(b, row, col, 0, 1)  // horizontal
			score += evaluateWindow(b, row, col, 1, 0)  // vertical
			score += evaluateWindow(b, row, col, 1, 1)  // diagonal \
			score += evaluateWindow(b, row, col, 1, -1) // diagonal /
		}
	}

	// Central squares participate in more winning lines, so reward
	// occupation of the center column on top of the window sums.
	center := domain.Columns / 2
	for row := 0; row < domain.Rows; row++ {
		switch b.Cell(row, center) {
		case domain.Player1:
			score += centerDiskBonus
		case domain.Player2:
			score -= centerDiskBonus
		}
	}

	return evalResult{score: score, plies: outcomeUnknown}
}

// evaluateWindow scores the run of four cells starting at (row, col) in
// the given direction. Windows that leave the board or contain disks from
// both players contribute nothing.
func evaluateWindow(b *domain.Board, row, col, deltaRow, deltaCol int) int {
	p1, p2, empty := 0, 0, 0

	for i := 0; i < domain.ToWin; i++ {
		r := row + i*deltaRow
		c := col + i*deltaCol
		if r < 0 || r >= domain.Rows || c < 0 || c >= domain.Columns {
			return 0
		}
		switch b.Cell(r, c) {
		case domain.Player1:
			p1++
		case domain.Player2:
			p2++
		default:
			empty++
		}
	}

	if p1 > 0 && p2 > 0 {
		return 0 // mixed window, dead for both sides
	}

	switch {
	case p1 == 4:
		return winScore
	case p2 == 4:
		return -winScore
	case p1 == 3 && empty == 1:
		return threeInWindow
	case p2 == 3 && empty == 1:
		return -threeInWindow
	case p1 == 2 && empty == 2:
		return twoInWindow
	case p2 == 2 && empty == 2:
		return -twoInWindow
	}

	return 0
}
