package chess

import "testing"

func TestModelScoreIsZeroForBalancedMaterial(t *testing.T) {
	m := Model{}
	board := NewGame().Game().Position().Board()

	if score := m.Score(board); score != 0 {
		t.Fatalf("expected a balanced starting position to score 0, got %v", score)
	}
}

func TestModelScoreFavorsMaterialAdvantage(t *testing.T) {
	state, err := NewFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("unexpected FEN error: %v", err)
	}
	m := Model{}
	score := m.Score(state.Game().Position().Board())

	if score <= 0 {
		t.Fatalf("expected White's extra queen to score positive, got %v", score)
	}
}
