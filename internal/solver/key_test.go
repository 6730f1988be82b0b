package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/droplogic/connect4/internal/domain"
)

func TestKeyTranspositionEquality(t *testing.T) {
	// Different move orders reaching the same cells with the same side
	// to move must share a cache slot.
	a := domain.NewBoard()
	playMoves(t, a, 0, 1, 2)

	b := domain.NewBoard()
	playMoves(t, b, 2, 1, 0)

	require.Equal(t, keyFor(a, 4), keyFor(b, 4))
}

func TestKeyDiscriminates(t *testing.T) {
	base := domain.NewBoard()
	playMoves(t, base, 3)

	t.Run("remaining depth", func(t *testing.T) {
		require.NotEqual(t, keyFor(base, 3), keyFor(base, 4))
	})

	t.Run("side to move", func(t *testing.T) {
		same, err := domain.FromGrid(base.Grid(), domain.Player1)
		require.NoError(t, err)
		require.Equal(t, domain.Player2, base.CurrentPlayer())
		require.NotEqual(t, keyFor(base, 4), keyFor(same, 4))
	})

	t.Run("grid contents", func(t *testing.T) {
		other := domain.NewBoard()
		playMoves(t, other, 2)
		require.NotEqual(t, keyFor(base, 4), keyFor(other, 4))
	})

	t.Run("every cell is covered", func(t *testing.T) {
		empty := keyFor(domain.NewBoard(), 4)
		seen := map[tableKey]bool{empty: true}

		for col := 0; col < domain.Columns; col++ {
			for height := 1; height <= domain.Rows; height++ {
				b := domain.NewBoard()
				for i := 0; i < height; i++ {
					require.True(t, b.MakeMove(col))
				}
				k := keyFor(b, 4)
				// force a fixed side bit so only the grid varies
				k.hi &^= 1 << 20
				require.False(t, seen[k], "column %d height %d collided", col, height)
				seen[k] = true
			}
		}
	})
}
