package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/droplogic/connect4/internal/domain"
)

func gridWith(cells map[[2]int]domain.PlayerID) [][]int {
	grid := make([][]int, domain.Rows)
	for row := range grid {
		grid[row] = make([]int, domain.Columns)
	}
	for pos, player := range cells {
		grid[pos[0]][pos[1]] = int(player)
	}
	return grid
}

func TestEvaluateEmptyBoard(t *testing.T) {
	require.Equal(t, 0, Evaluate(domain.NewBoard()))
}

func TestEvaluateCenterBonus(t *testing.T) {
	bottom := domain.Rows - 1

	t.Run("single disk in the center column", func(t *testing.T) {
		// A lone disk forms no scoring window, so the center bonus is
		// the entire score.
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 3}: domain.Player1,
		}), domain.Player2)
		require.NoError(t, err)
		require.Equal(t, centerDiskBonus, Evaluate(b))
	})

	t.Run("single disk on the edge", func(t *testing.T) {
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 0}: domain.Player1,
		}), domain.Player2)
		require.NoError(t, err)
		require.Equal(t, 0, Evaluate(b))
	})
}

func TestEvaluateWindows(t *testing.T) {
	bottom := domain.Rows - 1

	t.Run("adjacent pair", func(t *testing.T) {
		// Three horizontal windows hold both disks (+2 each), plus the
		// center bonus for the disk in column 3.
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 3}: domain.Player1,
			{bottom, 4}: domain.Player1,
		}), domain.Player2)
		require.NoError(t, err)
		require.Equal(t, 3*twoInWindow+centerDiskBonus, Evaluate(b))
	})

	t.Run("open three", func(t *testing.T) {
		// Disks at 2,3,4: two windows with three disks, two with a
		// pair, center bonus for column 3.
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 2}: domain.Player1,
			{bottom, 3}: domain.Player1,
			{bottom, 4}: domain.Player1,
		}), domain.Player2)
		require.NoError(t, err)
		require.Equal(t, 2*threeInWindow+2*twoInWindow+centerDiskBonus, Evaluate(b))
	})

	t.Run("mixed windows are dead", func(t *testing.T) {
		// An opposing disk next to the pair kills every window holding
		// both colors; only the center bonus remains.
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 3}: domain.Player1,
			{bottom, 4}: domain.Player2,
		}), domain.Player1)
		require.NoError(t, err)
		require.Equal(t, centerDiskBonus, Evaluate(b))
	})

	t.Run("opposing material scores negative", func(t *testing.T) {
		b, err := domain.FromGrid(gridWith(map[[2]int]domain.PlayerID{
			{bottom, 3}: domain.Player2,
			{bottom, 4}: domain.Player2,
		}), domain.Player1)
		require.NoError(t, err)
		require.Equal(t, -(3*twoInWindow + centerDiskBonus), Evaluate(b))
	})
}

func TestEvaluateTerminal(t *testing.T) {
	t.Run("player1 win", func(t *testing.T) {
		b := domain.NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 0, 1, 0)
		require.Equal(t, domain.Player1, b.Winner())

		result := evaluate(b)
		require.Equal(t, winScore, result.score)
		require.Equal(t, outcomeImmediate, result.plies)
	})

	t.Run("player2 win", func(t *testing.T) {
		b := domain.NewBoard()
		playMoves(t, b, 0, 1, 0, 1, 6, 1, 6, 1)
		require.Equal(t, domain.Player2, b.Winner())

		result := evaluate(b)
		require.Equal(t, -winScore, result.score)
		require.Equal(t, outcomeImmediate, result.plies)
	})

	t.Run("draw", func(t *testing.T) {
		b, err := domain.FromGrid(drawGrid(), domain.Player1)
		require.NoError(t, err)
		require.True(t, b.IsGameOver())

		result := evaluate(b)
		require.Equal(t, 0, result.score)
		require.Equal(t, outcomeImmediate, result.plies)
	})

	t.Run("heuristic leaf has unknown outcome", func(t *testing.T) {
		b := domain.NewBoard()
		playMoves(t, b, 3, 2)
		require.Equal(t, outcomeUnknown, evaluate(b).plies)
	})
}
