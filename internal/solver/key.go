package solver

import "github.com/droplogic/connect4/internal/domain"

// tableKey packs the full position plus remaining search depth into two
// words: 2 bits per cell (42 cells), one bit for the side to move, and a
// byte for the depth. Two positions collide only when they are the same
// physical state searched to the same remaining depth, which is exactly
// when a cached evaluation is reusable. Omitting the depth would conflate
// shallow and deep evaluations of the same board.
type tableKey struct {
	lo, hi uint64
}

func keyFor(b *domain.Board, depth int) tableKey {
	var k tableKey
	idx := 0
	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			cell := uint64(b.Cell(row, col)) // 0, 1 or 2
			if idx < 32 {
				k.lo |= cell << (2 * idx)
			} else {
				k.hi |= cell << (2 * (idx - 32))
			}
			idx++
		}
	}
	if b.CurrentPlayer() == domain.Player2 {
		k.hi |= 1 << 20
	}
	k.hi |= uint64(depth&0xff) << 21
	return k
}
