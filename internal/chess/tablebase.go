package chess

import "github.com/notnil/chess"

// maxTablebasePieces bounds how small a position has to be before a probe
// is attempted at all, the same gate the original Rust source applies
// (shakmaty::Chess::MAX_PIECES) before calling into the real Syzygy reader.
const maxTablebasePieces = 5

// Scale has the same value as pkg/mcts.Scale (1e3), declared here as an
// integer constant so it composes with this package's int64 StateEval.
const Scale = 1000

// Tablebase is a minimal, in-memory stand-in for a real Syzygy endgame
// tablebase reader. No pack example and no ecosystem Go library implements
// Syzygy probing, and tablebase file I/O is explicitly out of scope for
// this module's core — so rather than drop the probe step from the
// Evaluator pipeline entirely, this hand-rolled heuristic (lone king
// against king+rook/queen: always a known loss for the lone king) exercises
// the same (value, ok) probe-then-fallthrough contract a real reader would.
//
// See DESIGN.md for the justification of this being the one
// standard-library-only component in the module.
type Tablebase struct{}

// NewTablebase returns a ready-to-use reference tablebase.
func NewTablebase() *Tablebase {
	return &Tablebase{}
}

// Probe returns a win/loss value from White's perspective (at Scale
// fixed-point precision) for king+rook/queen vs. lone-king positions with
// at most maxTablebasePieces men, and ok=false for anything outside that
// coverage (the Evaluator falls through to the model in that case,
// mirroring the original source's "skip syzygy eval" path for positions it
// can't resolve).
func (tb *Tablebase) Probe(board *chess.Board) (value int64, ok bool) {
	pieces := board.SquareMap()
	if len(pieces) > maxTablebasePieces || len(pieces) != 3 {
		return 0, false
	}

	var majors int
	var strongColor chess.Color
	for _, p := range pieces {
		switch p.Type() {
		case chess.Rook, chess.Queen:
			majors++
			strongColor = p.Color()
		case chess.King:
			// expected, no action
		default:
			// pawns/minors fall outside this heuristic's coverage
			return 0, false
		}
	}
	if majors != 1 {
		return 0, false
	}

	if strongColor == chess.White {
		return Scale, true
	}
	return -Scale, true
}

// BestMove picks the move this heuristic considers best in a position Probe
// already recognizes: for the stronger side, the move landing closest to
// the lone king (boxing it toward an edge); for the lone king, the move
// landing farthest from the nearest edge (delaying mate as long as
// possible). Returns ok=false outside Probe's coverage, the same
// probe-then-fallthrough contract.
func (tb *Tablebase) BestMove(board *chess.Board, toMove chess.Color, moves []*chess.Move) (*chess.Move, bool) {
	value, ok := tb.Probe(board)
	if !ok || len(moves) == 0 {
		return nil, false
	}

	strongColor := chess.White
	if value < 0 {
		strongColor = chess.Black
	}
	weakColor := chess.Black
	if strongColor == chess.Black {
		weakColor = chess.White
	}

	var weakKing chess.Square
	for sq, p := range board.SquareMap() {
		if p.Type() == chess.King && p.Color() == weakColor {
			weakKing = sq
		}
	}
	strongToMove := toMove == strongColor

	best := moves[0]
	bestScore := boxingScore(best.S2(), weakKing, strongToMove)
	for _, m := range moves[1:] {
		if score := boxingScore(m.S2(), weakKing, strongToMove); score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, true
}

// boxingScore is higher for destinations that serve whichever side is
// driving the box: closer to the weak king for the stronger side, closer to
// the board's centre (farther from every edge) for the weak king itself.
func boxingScore(dest, weakKing chess.Square, strongToMove bool) int {
	if strongToMove {
		return -squareDistance(dest, weakKing)
	}
	return squareDistanceToEdge(dest)
}

func squareDistance(a, b chess.Square) int {
	fa, ra := int(a)%8, int(a)/8
	fb, rb := int(b)%8, int(b)/8
	return max(abs(fa-fb), abs(ra-rb))
}

func squareDistanceToEdge(sq chess.Square) int {
	f, r := int(sq)%8, int(sq)/8
	return min(f, 7-f, r, 7-r)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
