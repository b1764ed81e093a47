package chess

import (
	"github.com/chewxy/math32"
	"github.com/notnil/chess"
)

// mvvlvaBonus mirrors easychessanimations-zurichess/engine/move_ordering.go's
// table, indexed the same way: [no-piece, pawn, knight, bishop, rook,
// queen, king] with one pawn = 10.
var mvvlvaBonus = [...]float32{0, 10, 40, 45, 68, 145, 256}

func pieceIndex(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return 1
	case chess.Knight:
		return 2
	case chess.Bishop:
		return 3
	case chess.Rook:
		return 4
	case chess.Queen:
		return 5
	case chess.King:
		return 6
	default:
		return 0
	}
}

// movePolicyFeature scores one candidate move by most-valuable-victim/
// least-valuable-aggressor, with a flat bonus for promotions and checks, the
// handcrafted signal that stands in for a learned policy head in
// evaluateMoves (evaluator.go).
//
// Grounded on easychessanimations-zurichess/engine/move_ordering.go's
// mvvlva(), adapted from zurichess's internal Move type to notnil/chess's.
func movePolicyFeature(board *chess.Board, m *chess.Move) float32 {
	var score float32

	if m.HasTag(chess.Capture) {
		victim := board.Piece(m.S2())
		aggressor := board.Piece(m.S1())
		score = mvvlvaBonus[pieceIndex(victim.Type())]*64 - mvvlvaBonus[pieceIndex(aggressor.Type())]
	}

	if m.Promo() != chess.NoPieceType {
		score += mvvlvaBonus[pieceIndex(m.Promo())] * 8
	}

	if m.HasTag(chess.Check) {
		score += 50
	}

	return score
}

// evaluateMoves assigns each move a handcrafted policy feature, then
// softmaxes them into priors.
//
// Grounded on the original Rust source's policy_features::evaluate_moves
// (_examples/original_source/src/evaluation.rs calls it ahead of softmax).
func evaluateMoves(board *chess.Board, moves []*chess.Move) []float32 {
	scores := make([]float32, len(moves))
	for i, m := range moves {
		scores[i] = movePolicyFeature(board, m)
	}
	return softmax(scores)
}

// softmax normalizes scores into a probability distribution, matching the
// original Rust source's policy_features::softmax.
func softmax(scores []float32) []float32 {
	if len(scores) == 0 {
		return scores
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	sum := float32(0)
	out := make([]float32, len(scores))
	for i, s := range scores {
		e := math32.Exp((s - max) / 100) // /100: scores are on a centipawn-ish scale
		out[i] = e
		sum += e
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
