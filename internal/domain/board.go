package domain

// Board holds the full position: grid contents, whose turn it is, and the
// terminal state. Row 0 is the top of the board, row Rows-1 the bottom.
//
// The grid is a value array so Clone is a single struct copy. The solver
// clones once per explored branch, which makes copy cost matter more than
// anything else about the representation.
type Board struct {
	grid      [Rows][Columns]PlayerID
	current   PlayerID
	gameOver  bool
	winner    PlayerID
	moveCount int
}

func NewBoard() *Board {
	return &Board{current: Player1}
}

// Clone returns an independent copy of the position.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// MakeMove drops the current player's disk into the given column. It
// returns false without mutating anything if the game is already over,
// the column is out of range, or the column is full.
func (b *Board) MakeMove(col int) bool {
	if b.gameOver || col < 0 || col >= Columns {
		return false
	}

	// shifting the disk from the top down until it rests on the bottom
	// or on another disk
	for row := Rows - 1; row >= 0; row-- {
		if b.grid[row][col] != Empty {
			continue
		}
		b.grid[row][col] = b.current
		b.moveCount++

		if b.checkWin(row, col) {
			b.gameOver = true
			b.winner = b.current
		} else if b.isFull() {
			b.gameOver = true // draw, winner stays Empty
		} else {
			b.current = b.current.Opponent()
		}
		return true
	}

	return false // column is full
}

// IsValidMove reports whether the column can receive a disk right now.
func (b *Board) IsValidMove(col int) bool {
	if b.gameOver || col < 0 || col >= Columns {
		return false
	}
	return b.grid[0][col] == Empty
}

// ValidMoves returns the playable columns in ascending order.
func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.IsValidMove(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

func (b *Board) Cell(row, col int) PlayerID {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return Empty
	}
	return b.grid[row][col]
}

func (b *Board) CurrentPlayer() PlayerID {
	return b.current
}

func (b *Board) IsGameOver() bool {
	return b.gameOver
}

// Winner returns the winning player, or Empty when the game is still
// running or ended in a draw.
func (b *Board) Winner() PlayerID {
	return b.winner
}

func (b *Board) MoveCount() int {
	return b.moveCount
}

func (b *Board) Status() GameStatus {
	switch {
	case !b.gameOver:
		return StatusActive
	case b.winner != Empty:
		return StatusWon
	default:
		return StatusDraw
	}
}

// Reset clears the board back to the empty, Player1-to-move state.
func (b *Board) Reset() {
	*b = Board{current: Player1}
}

// Grid returns the cells as a plain 2D slice for serialization.
func (b *Board) Grid() [][]int {
	grid := make([][]int, Rows)
	for row := 0; row < Rows; row++ {
		grid[row] = make([]int, Columns)
		for col := 0; col < Columns; col++ {
			grid[row][col] = int(b.grid[row][col])
		}
	}
	return grid
}

// FromGrid reconstructs a position from raw cell values, validating
// dimensions, cell contents and gravity (no disk may float above an empty
// cell). Terminal state and winner are recomputed by scanning the whole
// board, since the placing move is unknown.
func FromGrid(cells [][]int, toMove PlayerID) (*Board, error) {
	if toMove != Player1 && toMove != Player2 {
		return nil, ErrInvalidMove
	}
	if len(cells) != Rows {
		return nil, ErrInvalidMove
	}

	b := &Board{current: toMove}
	for row := 0; row < Rows; row++ {
		if len(cells[row]) != Columns {
			return nil, ErrInvalidMove
		}
		for col := 0; col < Columns; col++ {
			v := PlayerID(cells[row][col])
			if v != Empty && v != Player1 && v != Player2 {
				return nil, ErrInvalidMove
			}
			if v != Empty {
				b.moveCount++
			}
			b.grid[row][col] = v
		}
	}

	// gravity: every disk rests on the bottom or on another disk
	for col := 0; col < Columns; col++ {
		for row := 0; row < Rows-1; row++ {
			if b.grid[row][col] != Empty && b.grid[row+1][col] == Empty {
				return nil, ErrInvalidMove
			}
		}
	}

	if winner := b.lineWinner(); winner != Empty {
		b.gameOver = true
		b.winner = winner
		b.current = toMove
	} else if b.isFull() {
		b.gameOver = true
	}

	return b, nil
}

func (b *Board) isFull() bool {
	for col := 0; col < Columns; col++ {
		if b.grid[0][col] == Empty {
			return false
		}
	}
	return true
}
