package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/droplogic/connect4/internal/domain"
)

func playMoves(t *testing.T, b *domain.Board, cols ...int) {
	t.Helper()
	for _, col := range cols {
		require.True(t, b.MakeMove(col), "move in column %d should succeed", col)
	}
}

// drawGrid fills the board with vertical pairs flipping between column
// parities, which leaves no run longer than two in any direction.
func drawGrid() [][]int {
	grid := make([][]int, domain.Rows)
	for row := 0; row < domain.Rows; row++ {
		grid[row] = make([]int, domain.Columns)
		band := 0
		if row == 2 || row == 3 {
			band = 1
		}
		for col := 0; col < domain.Columns; col++ {
			if (band+col)%2 == 0 {
				grid[row][col] = int(domain.Player1)
			} else {
				grid[row][col] = int(domain.Player2)
			}
		}
	}
	return grid
}

func TestFindBestMoveImmediateWin(t *testing.T) {
	t.Run("three in the bottom row", func(t *testing.T) {
		// Player1 holds columns 0..2 on the bottom row with the move;
		// column 3 completes the line.
		b := domain.NewBoard()
		playMoves(t, b, 0, 5, 1, 5, 2, 6)
		require.Equal(t, domain.Player1, b.CurrentPlayer())

		for _, depth := range []int{1, 2, 4, 6} {
			result, ok := New().FindBestMove(b, depth)
			require.True(t, ok)
			require.Equal(t, 3, result.Column, "depth %d", depth)
			require.True(t, result.Forced)
			require.Equal(t, 1, result.MovesToWin)
		}
	})

	t.Run("vertical win for the second player", func(t *testing.T) {
		b := domain.NewBoard()
		playMoves(t, b, 0, 6, 1, 6, 3, 6, 4)
		require.Equal(t, domain.Player2, b.CurrentPlayer())

		result, ok := New().FindBestMove(b, 4)
		require.True(t, ok)
		require.Equal(t, 6, result.Column)
		require.True(t, result.Forced)
		require.Equal(t, 1, result.MovesToWin)
	})
}

func TestFindBestMoveAvoidsOneMoveLoss(t *testing.T) {
	// Player2 has three in the bottom row at 4..6, blocked on the right
	// by the board edge. Column 3 is the only move that does not hand
	// Player2 the win next turn, and it must be chosen at any depth.
	b := domain.NewBoard()
	playMoves(t, b, 0, 4, 0, 5, 1, 6)
	require.Equal(t, domain.Player1, b.CurrentPlayer())

	for _, depth := range []int{1, 2, 4} {
		result, ok := New().FindBestMove(b, depth)
		require.True(t, ok)
		require.Equal(t, 3, result.Column, "depth %d", depth)
	}
}

func TestFindBestMoveForcedWinViaDoubleThreat(t *testing.T) {
	// Bottom row: 2 . 1 1 . . 2 with Player1 to move. Playing column 4
	// makes an open three at 2,3,4; whichever end Player2 blocks,
	// Player1 wins on the other — three plies in total.
	grid := make([][]int, domain.Rows)
	for row := range grid {
		grid[row] = make([]int, domain.Columns)
	}
	grid[domain.Rows-1][0] = int(domain.Player2)
	grid[domain.Rows-1][2] = int(domain.Player1)
	grid[domain.Rows-1][3] = int(domain.Player1)
	grid[domain.Rows-1][6] = int(domain.Player2)

	b, err := domain.FromGrid(grid, domain.Player1)
	require.NoError(t, err)

	// With the horizon exactly at the win distance the only winning line
	// the search can reach is the shortest one, so the count is exact.
	result, ok := New().FindBestMove(b, 3)
	require.True(t, ok)
	require.Equal(t, 4, result.Column)
	require.True(t, result.Forced)
	require.Equal(t, 3, result.MovesToWin)

	// Deeper searches still prove the forced win, but a cutoff can settle
	// on a longer winning line before the shortest one is expanded. What
	// holds at every depth: the outcome is forced, the count stays within
	// the horizon, and a win lands on the winner's own move, so the count
	// is odd.
	for _, depth := range []int{4, 6} {
		result, ok := New().FindBestMove(b, depth)
		require.True(t, ok)
		require.True(t, result.Forced, "depth %d", depth)
		require.GreaterOrEqual(t, result.MovesToWin, 3, "depth %d", depth)
		require.LessOrEqual(t, result.MovesToWin, depth+1, "depth %d", depth)
		require.Equal(t, 1, result.MovesToWin%2, "depth %d", depth)
	}
}

func TestFindBestMoveEmptyBoard(t *testing.T) {
	b := domain.NewBoard()

	result, ok := New().FindBestMove(b, 4)
	require.True(t, ok)
	require.GreaterOrEqual(t, result.Column, 0)
	require.Less(t, result.Column, domain.Columns)
	require.False(t, result.Forced, "no forced outcome exists this early")
}

func TestFindBestMoveTerminalPositions(t *testing.T) {
	t.Run("already won", func(t *testing.T) {
		b := domain.NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 0, 1, 0)
		require.True(t, b.IsGameOver())

		_, ok := New().FindBestMove(b, 4)
		require.False(t, ok)
	})

	t.Run("full board draw", func(t *testing.T) {
		b, err := domain.FromGrid(drawGrid(), domain.Player1)
		require.NoError(t, err)
		require.True(t, b.IsGameOver())
		require.Equal(t, domain.Empty, b.Winner())

		_, ok := New().FindBestMove(b, 4)
		require.False(t, ok)
	})
}

func TestFindBestMoveDeterminism(t *testing.T) {
	b := domain.NewBoard()
	playMoves(t, b, 3, 3, 2, 4)

	s := New()
	first, ok := s.FindBestMove(b, 5)
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		again, ok := s.FindBestMove(b, 5)
		require.True(t, ok)
		require.Equal(t, first, again, "repeat call %d", i)
	}
}

func TestFindBestMoveCacheSoundness(t *testing.T) {
	// None of these positions has a one-move win: that path short-circuits
	// before the search runs and stores nothing.
	positions := [][]int{
		{},
		{3},
		{3, 3, 2, 4},
		{0, 0, 1, 1, 6},
		{3, 2, 3, 3, 4, 4, 2},
	}

	for _, moves := range positions {
		b := domain.NewBoard()
		playMoves(t, b, moves...)

		s := New()
		warm, ok := s.FindBestMove(b, 5)
		require.True(t, ok)
		require.Greater(t, s.CacheSize(), 0)

		s.ClearCache()
		require.Equal(t, 0, s.CacheSize())

		cold, ok := s.FindBestMove(b, 5)
		require.True(t, ok)
		require.Equal(t, warm, cold, "after moves %v", moves)
	}
}

func TestFindBestMoveSolverReuseAcrossPositions(t *testing.T) {
	// One solver instance over the course of a game: cached entries from
	// earlier searches must never corrupt later ones. Compare against a
	// fresh solver at every step.
	s := New()
	b := domain.NewBoard()

	for !b.IsGameOver() {
		reused, ok := s.FindBestMove(b, 4)
		require.True(t, ok)

		fresh, ok := New().FindBestMove(b, 4)
		require.True(t, ok)
		require.Equal(t, fresh, reused, "after %d moves", b.MoveCount())

		require.True(t, b.MakeMove(reused.Column))
	}
}

func mirrorGrid(grid [][]int) [][]int {
	mirrored := make([][]int, len(grid))
	for row := range grid {
		mirrored[row] = make([]int, len(grid[row]))
		for col := range grid[row] {
			mirrored[row][col] = grid[row][len(grid[row])-1-col]
		}
	}
	return mirrored
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	// The symmetry guarantee is about scores: the evaluation of a board
	// and its mirror is identical. The returned column is not mirrored in
	// general — the center-out, first-wins tie-break keeps the same
	// absolute column on a tied equidistant pair for both boards.
	positions := [][]int{
		{0},
		{1, 2},
		{0, 0, 1, 1, 2},
		{5, 5, 2, 1, 6},
		{3, 2, 2, 4, 0, 6},
		{0, 4, 0, 5, 1, 6},
	}

	for _, moves := range positions {
		b := domain.NewBoard()
		playMoves(t, b, moves...)

		mirrored, err := domain.FromGrid(mirrorGrid(b.Grid()), b.CurrentPlayer())
		require.NoError(t, err)

		require.Equal(t, Evaluate(b), Evaluate(mirrored),
			"static scores must match after mirroring %v", moves)

		_, ok := New().FindBestMove(b, 4)
		require.True(t, ok)
		_, ok = New().FindBestMove(mirrored, 4)
		require.True(t, ok)
	}
}

func TestFindBestMoveDoesNotMutateCaller(t *testing.T) {
	b := domain.NewBoard()
	playMoves(t, b, 3, 2)
	snapshot := b.Grid()
	player := b.CurrentPlayer()
	count := b.MoveCount()

	_, ok := New().FindBestMove(b, 5)
	require.True(t, ok)

	require.Equal(t, snapshot, b.Grid())
	require.Equal(t, player, b.CurrentPlayer())
	require.Equal(t, count, b.MoveCount())
	require.False(t, b.IsGameOver())
}

func TestFindBestMoveNoPanicSweep(t *testing.T) {
	// Every reachable kind of position, including depth zero and full
	// columns, must degrade to sentinel results instead of panicking.
	boards := []*domain.Board{domain.NewBoard()}

	full := domain.NewBoard()
	playMoves(t, full, 0, 0, 0, 0, 0, 0) // column 0 filled
	boards = append(boards, full)

	won := domain.NewBoard()
	playMoves(t, won, 0, 1, 0, 1, 0, 1, 0)
	boards = append(boards, won)

	draw, err := domain.FromGrid(drawGrid(), domain.Player2)
	require.NoError(t, err)
	boards = append(boards, draw)

	for _, b := range boards {
		for depth := 0; depth <= 5; depth++ {
			require.NotPanics(t, func() {
				New().FindBestMove(b, depth)
			})
		}
	}
}

func TestIsFasterWin(t *testing.T) {
	t.Run("known outcome beats unknown for maximizer", func(t *testing.T) {
		require.True(t, isFasterWin(3, outcomeUnknown, true))
		require.False(t, isFasterWin(3, outcomeUnknown, false))
	})

	t.Run("maximizer prefers shorter lines", func(t *testing.T) {
		require.True(t, isFasterWin(2, 4, true))
		require.False(t, isFasterWin(4, 2, true))
	})

	t.Run("minimizer delays the outcome", func(t *testing.T) {
		require.True(t, isFasterWin(4, 2, false))
		require.False(t, isFasterWin(2, 4, false))
	})

	t.Run("two unknowns never swap", func(t *testing.T) {
		require.False(t, isFasterWin(outcomeUnknown, outcomeUnknown, true))
		require.False(t, isFasterWin(outcomeUnknown, outcomeUnknown, false))
	})
}

func TestOrderMovesCenterOut(t *testing.T) {
	moves := []int{0, 1, 2, 3, 4, 5, 6}
	orderMovesCenterOut(moves)
	require.Equal(t, 3, moves[0])

	for i := 1; i < len(moves); i++ {
		require.GreaterOrEqual(t,
			abs(moves[i]-3), abs(moves[i-1]-3),
			"distance from center must be non-decreasing")
	}
}
