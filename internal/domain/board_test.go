package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func playMoves(t *testing.T, b *Board, cols ...int) {
	t.Helper()
	for _, col := range cols {
		require.True(t, b.MakeMove(col), "move in column %d should succeed", col)
	}
}

func TestBoardGravity(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, 3, 3, 3)

	require.Equal(t, Player1, b.Cell(Rows-1, 3))
	require.Equal(t, Player2, b.Cell(Rows-2, 3))
	require.Equal(t, Player1, b.Cell(Rows-3, 3))
	require.Equal(t, Empty, b.Cell(Rows-4, 3))
}

func TestBoardTurnToggling(t *testing.T) {
	b := NewBoard()
	require.Equal(t, Player1, b.CurrentPlayer())

	playMoves(t, b, 0)
	require.Equal(t, Player2, b.CurrentPlayer())

	playMoves(t, b, 1)
	require.Equal(t, Player1, b.CurrentPlayer())
}

func TestBoardRejectsInvalidMoves(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		b := NewBoard()
		require.False(t, b.MakeMove(-1))
		require.False(t, b.MakeMove(Columns))
		require.Equal(t, Player1, b.CurrentPlayer())
		require.Equal(t, 0, b.MoveCount())
	})

	t.Run("full column", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 0, 0, 0, 0, 0, 0)
		require.False(t, b.IsValidMove(0))
		require.False(t, b.MakeMove(0))
		require.Equal(t, 6, b.MoveCount())
	})

	t.Run("after game over", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 0, 1, 0) // vertical win for Player1
		require.True(t, b.IsGameOver())
		require.False(t, b.MakeMove(2))
		require.False(t, b.IsValidMove(2))
		require.Empty(t, b.ValidMoves())
	})
}

func TestBoardWinDetection(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 0, 0, 1, 1, 2, 2, 3)
		require.True(t, b.IsGameOver())
		require.Equal(t, Player1, b.Winner())
		require.Equal(t, StatusWon, b.Status())
	})

	t.Run("vertical", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 2, 3, 2, 3, 2, 3, 2)
		require.True(t, b.IsGameOver())
		require.Equal(t, Player1, b.Winner())
	})

	t.Run("diagonal up-right", func(t *testing.T) {
		b := NewBoard()
		// staircase: Player1 lands at heights 1, 2, 3, 4 in columns 0..3
		playMoves(t, b, 0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3)
		require.True(t, b.IsGameOver())
		require.Equal(t, Player1, b.Winner())
	})

	t.Run("diagonal up-left", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3)
		require.True(t, b.IsGameOver())
		require.Equal(t, Player1, b.Winner())
	})

	t.Run("win freezes current player", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 0, 1, 0)
		require.Equal(t, Player1, b.CurrentPlayer())
	})
}

// drawGrid is a full board with no line of four anywhere: column values
// repeat in vertical pairs and flip between column parities, so no run
// exceeds two in any direction.
func drawGrid() [][]int {
	grid := make([][]int, Rows)
	for row := 0; row < Rows; row++ {
		grid[row] = make([]int, Columns)
		band := 0
		if row == 2 || row == 3 {
			band = 1
		}
		for col := 0; col < Columns; col++ {
			if (band+col)%2 == 0 {
				grid[row][col] = int(Player1)
			} else {
				grid[row][col] = int(Player2)
			}
		}
	}
	return grid
}

func TestBoardDraw(t *testing.T) {
	b, err := FromGrid(drawGrid(), Player1)
	require.NoError(t, err)

	require.True(t, b.IsGameOver())
	require.Equal(t, Empty, b.Winner())
	require.Equal(t, StatusDraw, b.Status())
	require.Empty(t, b.ValidMoves())
	require.False(t, b.MakeMove(3))
}

func TestBoardReset(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, 0, 1, 0, 1, 0, 1, 0)
	require.True(t, b.IsGameOver())

	b.Reset()
	require.False(t, b.IsGameOver())
	require.Equal(t, Player1, b.CurrentPlayer())
	require.Equal(t, Empty, b.Winner())
	require.Equal(t, 0, b.MoveCount())
	require.Len(t, b.ValidMoves(), Columns)
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	playMoves(t, b, 3, 4)

	clone := b.Clone()
	playMoves(t, clone, 5)

	require.Equal(t, Empty, b.Cell(Rows-1, 5))
	require.Equal(t, Player1, clone.Cell(Rows-1, 5))
	require.Equal(t, 2, b.MoveCount())
	require.Equal(t, 3, clone.MoveCount())
}

func TestFromGrid(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 3, 3, 4, 2)

		rebuilt, err := FromGrid(b.Grid(), b.CurrentPlayer())
		require.NoError(t, err)
		require.Equal(t, b.CurrentPlayer(), rebuilt.CurrentPlayer())
		require.Equal(t, b.MoveCount(), rebuilt.MoveCount())
		require.False(t, rebuilt.IsGameOver())
	})

	t.Run("detects an existing winner", func(t *testing.T) {
		b := NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 0, 1, 0)

		rebuilt, err := FromGrid(b.Grid(), Player2)
		require.NoError(t, err)
		require.True(t, rebuilt.IsGameOver())
		require.Equal(t, Player1, rebuilt.Winner())
	})

	t.Run("rejects floating disks", func(t *testing.T) {
		grid := NewBoard().Grid()
		grid[0][3] = int(Player1) // top cell with nothing beneath
		_, err := FromGrid(grid, Player1)
		require.Error(t, err)
	})

	t.Run("rejects bad cell values", func(t *testing.T) {
		grid := NewBoard().Grid()
		grid[Rows-1][0] = 9
		_, err := FromGrid(grid, Player1)
		require.Error(t, err)
	})

	t.Run("rejects bad dimensions", func(t *testing.T) {
		_, err := FromGrid([][]int{{0, 0}}, Player1)
		require.Error(t, err)
	})

	t.Run("rejects bad side to move", func(t *testing.T) {
		_, err := FromGrid(NewBoard().Grid(), Empty)
		require.Error(t, err)
	})
}

func TestOpponent(t *testing.T) {
	require.Equal(t, Player2, Player1.Opponent())
	require.Equal(t, Player1, Player2.Opponent())
	require.Equal(t, Player1, Player1.Opponent().Opponent())
	require.Equal(t, Empty, Empty.Opponent())
}
