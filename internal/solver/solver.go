// Package solver picks moves for the engine: bounded-depth minimax with
// alpha-beta pruning, a transposition table and forced-outcome tracking.
//
// Player1 maximizes the score and Player2 minimizes it, regardless of
// which side the engine is playing.
package solver

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/domain"
)

// MoveResult is the answer for one top-level search: the column to play
// and, when the search proved a forced outcome inside its horizon, the
// number of plies until that outcome. Forced is false when the position
// could not be decided within the depth budget.
type MoveResult struct {
	Column     int
	MovesToWin int
	Forced     bool
}

// evalResult is the per-node search outcome. plies counts the moves until
// the terminal state it derives from, or outcomeUnknown when the score is
// a horizon heuristic.
type evalResult struct {
	score int
	plies int8
}

// Solver owns the transposition table. Entries are keyed on exact board
// contents, side to move and remaining depth, so they stay valid for any
// path reaching the same state; nothing is ever invalidated during a game.
//
// A Solver is single-owner state: the table is mutated in place during a
// search, so a second FindBestMove must not start on the same instance
// before the first returns.
type Solver struct {
	table map[tableKey]evalResult
}

func New() *Solver {
	return &Solver{table: make(map[tableKey]evalResult)}
}

// ClearCache drops every transposition entry. Results of later searches
// are unaffected; only their running time changes.
func (s *Solver) ClearCache() {
	s.table = make(map[tableKey]evalResult)
}

// CacheSize returns the number of stored transposition entries.
func (s *Solver) CacheSize() int {
	return len(s.table)
}

// FindBestMove searches the position to the given depth and returns the
// column to play. It returns false when the game is already over or no
// column is playable. The caller's board is never mutated.
func (s *Solver) FindBestMove(b *domain.Board, depth int) (MoveResult, bool) {
	if b.IsGameOver() {
		return MoveResult{}, false
	}

	validMoves := b.ValidMoves()
	if len(validMoves) == 0 {
		return MoveResult{}, false
	}

	// A one-move win is taken before any search runs, so pruning and
	// depth limits can never hide it.
	if col, ok := s.findImmediateWin(b); ok {
		return MoveResult{Column: col, MovesToWin: 1, Forced: true}, true
	}

	// Center-first ordering improves cutoff rates and biases ties toward
	// the structurally stronger columns.
	orderMovesCenterOut(validMoves)

	// Player1 seeks positive scores, Player2 negative ones.
	maximizing := b.CurrentPlayer() == domain.Player1

	// Root-level loss avoidance: prefer moves that do not hand the
	// opponent a winning reply. When every move loses on the spot, fall
	// back to all of them and pick the least bad by score.
	nonLosing := make([]int, 0, len(validMoves))
	for _, col := range validMoves {
		next := b.Clone()
		next.MakeMove(col)
		if _, ok := s.findImmediateWin(next); !ok {
			nonLosing = append(nonLosing, col)
		}
	}

	searchSpace := validMoves
	if len(nonLosing) > 0 {
		searchSpace = nonLosing
	}

	best := MoveResult{Column: validMoves[0]}
	bestScore := math.MaxInt32
	if maximizing {
		bestScore = math.MinInt32
	}

	for _, col := range searchSpace {
		next := b.Clone()
		next.MakeMove(col)
		result := s.minimax(next, depth, math.MinInt32, math.MaxInt32, !maximizing)

		better := false
		if maximizing {
			better = result.score > bestScore
		} else {
			better = result.score < bestScore
		}
		if !better && result.score == bestScore {
			better = isFasterWin(result.plies, outcomeOf(best), maximizing)
		}

		if better {
			bestScore = result.score
			best.Column = col
			if result.plies >= 0 {
				// +1 for the move about to be made.
				best.MovesToWin = int(result.plies) + 1
				best.Forced = true
			} else {
				best.MovesToWin = 0
				best.Forced = false
			}
		}
	}

	log.Debug().
		Int("column", best.Column).
		Int("depth", depth).
		Bool("forced", best.Forced).
		Int("movesToWin", best.MovesToWin).
		Int("cacheEntries", len(s.table)).
		Msg("search finished")

	return best, true
}

// outcomeOf converts the public result back to the internal ply sentinel
// for tie-break comparisons at the root.
func outcomeOf(r MoveResult) int8 {
	if !r.Forced {
		return outcomeUnknown
	}
	return int8(r.MovesToWin)
}

// isFasterWin breaks ties between equal scores: a known outcome beats an
// unknown one for the maximizer, and among known outcomes the maximizer
// wants the shortest line while the minimizer wants the longest (delaying
// the loss). With two unknowns nothing changes.
func isFasterWin(newPlies, currentPlies int8, maximizing bool) bool {
	switch {
	case newPlies >= 0 && currentPlies >= 0:
		if maximizing {
			return newPlies < currentPlies
		}
		return newPlies > currentPlies
	case newPlies >= 0:
		return maximizing
	default:
		return false
	}
}

func (s *Solver) minimax(b *domain.Board, depth, alpha, beta int, maximizing bool) evalResult {
	if depth == 0 || b.IsGameOver() {
		return evaluate(b)
	}

	key := keyFor(b, depth)
	if cached, ok := s.table[key]; ok {
		return cached
	}

	validMoves := b.ValidMoves()
	orderMovesCenterOut(validMoves)

	best := evalResult{score: math.MaxInt32, plies: outcomeUnknown}
	if maximizing {
		best.score = math.MinInt32
	}

	for _, col := range validMoves {
		next := b.Clone()
		next.MakeMove(col)
		result := s.minimax(next, depth-1, alpha, beta, !maximizing)

		better := false
		if maximizing {
			better = result.score > best.score
		} else {
			better = result.score < best.score
		}
		if !better && result.score == best.score {
			better = isFasterWin(result.plies, best.plies, maximizing)
		}

		if better {
			best = evalResult{score: result.score, plies: bumpPlies(result.plies)}
		}

		if maximizing {
			if result.score > alpha {
				alpha = result.score
			}
		} else {
			if result.score < beta {
				beta = result.score
			}
		}
		if beta <= alpha {
			break // alpha-beta cutoff
		}
	}

	s.table[key] = best
	return best
}

// bumpPlies accounts for the one ply consumed reaching this node from the
// child; unknown outcomes stay unknown.
func bumpPlies(p int8) int8 {
	if p < 0 {
		return outcomeUnknown
	}
	return p + 1
}

// findImmediateWin returns a column that ends the game in the mover's
// favor right now, scanning columns in ascending order.
func (s *Solver) findImmediateWin(b *domain.Board) (int, bool) {
	me := b.CurrentPlayer()
	for _, col := range b.ValidMoves() {
		next := b.Clone()
		next.MakeMove(col)
		if next.IsGameOver() && next.Winner() == me {
			return col, true
		}
	}
	return 0, false
}

func orderMovesCenterOut(moves []int) {
	center := domain.Columns / 2
	sort.SliceStable(moves, func(i, j int) bool {
		return abs(moves[i]-center) < abs(moves[j]-center)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
