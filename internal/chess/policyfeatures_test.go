package chess

import (
	"testing"

	"github.com/notnil/chess"
)

func TestEvaluateMovesMatchesMoveCount(t *testing.T) {
	state := NewGame()
	board := state.Game().Position().Board()
	moves := state.Game().ValidMoves()

	priors := evaluateMoves(board, moves)
	if len(priors) != len(moves) {
		t.Fatalf("expected %d priors, got %d", len(moves), len(priors))
	}
}

func TestMovePolicyFeatureFavorsCaptures(t *testing.T) {
	// White's e4 pawn can capture on d5 or push quietly to e5; the capture
	// should score strictly higher via the MVV-LVA bonus.
	state, err := NewFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("unexpected FEN error: %v", err)
	}
	board := state.Game().Position().Board()

	var captureScore, quietScore float32
	var sawCapture, sawQuiet bool
	for _, m := range state.Game().ValidMoves() {
		score := movePolicyFeature(board, m)
		if m.HasTag(chess.Capture) {
			captureScore = score
			sawCapture = true
		} else {
			quietScore = score
			sawQuiet = true
		}
	}

	if !sawCapture || !sawQuiet {
		t.Fatalf("expected this position to have both a capture and a quiet move available")
	}
	if captureScore <= quietScore {
		t.Fatalf("expected the capture to score higher than the quiet move: capture=%v quiet=%v", captureScore, quietScore)
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	scores := []float32{10, 50, -20, 0}
	probs := softmax(scores)

	var sum float32
	for _, p := range probs {
		if p < 0 {
			t.Fatalf("softmax output must be non-negative, got %v", p)
		}
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("expected softmax outputs to sum to 1, got %v", sum)
	}
}

func TestSoftmaxHandlesEmptyInput(t *testing.T) {
	if probs := softmax(nil); len(probs) != 0 {
		t.Fatalf("expected softmax of an empty slice to stay empty, got %v", probs)
	}
}
