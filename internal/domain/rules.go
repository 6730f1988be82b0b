package domain

// axisPairs lists one direction per line orientation; the opposite
// direction is scanned by negating the deltas.
var axisPairs = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// checkWin reports whether the disk just placed at (row, col) completes a
// line of ToWin. Only lines through the placed cell are checked, so this
// runs exactly once per move.
func (b *Board) checkWin(row, col int) bool {
	player := b.grid[row][col]
	if player == Empty {
		return false
	}

	for _, axis := range axisPairs {
		dRow, dCol := axis[0], axis[1]
		count := b.countDirection(row, col, dRow, dCol, player) +
			b.countDirection(row, col, -dRow, -dCol, player) + 1
		if count >= ToWin {
			return true
		}
	}
	return false
}

// lineWinner scans the whole board for a completed line of ToWin and
// returns its owner. Used only when reconstructing a position from raw
// cells; moves made through MakeMove are checked at the placed cell.
func (b *Board) lineWinner() PlayerID {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			player := b.grid[row][col]
			if player == Empty {
				continue
			}
			for _, axis := range axisPairs {
				if b.countDirection(row, col, axis[0], axis[1], player) >= ToWin-1 {
					return player
				}
			}
		}
	}
	return Empty
}

// countDirection counts consecutive disks of player extending from
// (row, col) in the given direction, stopping at the board edge, an empty
// cell, or an opposing disk. The origin cell itself is not counted.
func (b *Board) countDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for r >= 0 && r < Rows && c >= 0 && c < Columns && b.grid[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
