package chess

import (
	"github.com/chewxy/math32"
	"github.com/notnil/chess"
)

// Model is the reference scoring function standing in for the learned
// policy/value network spec scope explicitly leaves out of the core: a
// material-count sum, the simplest model that still exercises the
// Evaluator pipeline end to end.
//
// Grounded on the material values backing
// easychessanimations-zurichess/engine/move_ordering.go's mvvlvaBonus table
// (one pawn = 10 there; this reuses the conventional centipawn scale
// instead since Score feeds a [-1, 1]-ish range via math32.Tanh).
type Model struct{}

var pieceValue = map[chess.PieceType]float32{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   0,
}

// Score returns a white-relative centipawn-scale material count, squashed
// through tanh into roughly [-1, 1] so it composes with the Evaluator's
// fixed-point StateEval (see evaluator.go's scaling).
func (Model) Score(board *chess.Board) float32 {
	var total float32
	for _, piece := range board.SquareMap() {
		v := pieceValue[piece.Type()]
		if piece.Color() == chess.White {
			total += v
		} else {
			total -= v
		}
	}
	// /1000 keeps a queen-for-nothing swing (~900cp) well inside tanh's
	// sensitive range rather than saturating it immediately.
	return math32.Tanh(total / 1000)
}
