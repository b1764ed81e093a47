package chess

import (
	"testing"

	"github.com/notnil/chess"
)

func TestNewGameStartsWithTwentyLegalMoves(t *testing.T) {
	s := NewGame()
	moves := s.LegalMoves()
	if len(moves) != 20 {
		t.Fatalf("expected 20 legal moves from the starting position, got %d", len(moves))
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := NewGame()
	before := s.FEN()

	next := s.Apply(s.LegalMoves()[0])

	if s.FEN() != before {
		t.Fatalf("Apply mutated the receiver: before=%q after=%q", before, s.FEN())
	}
	if next.FEN() == before {
		t.Fatalf("Apply returned a state identical to the receiver")
	}
}

func TestApplyPanicsOnIllegalMove(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Apply to panic on an illegal move")
		}
	}()
	s := NewGame()
	s.Apply("e2e5")
}

func TestHashIsDeterministicAndPositionSensitive(t *testing.T) {
	a := NewGame()
	b := NewGame()
	if a.Hash() != b.Hash() {
		t.Fatalf("two fresh starting positions should hash identically")
	}

	moves := a.LegalMoves()
	c := a.Apply(moves[0])
	if c.Hash() == a.Hash() {
		t.Fatalf("a different position should not share the starting position's hash")
	}
}

func TestTerminalReflectsCheckmate(t *testing.T) {
	// Fool's mate: terminal position after 1. f3 e5 2. g4 Qh4#.
	s, err := NewFromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("unexpected FEN error: %v", err)
	}
	if !s.Terminal() {
		t.Fatalf("expected a checkmated position to report Terminal")
	}
	outcome, method := s.Outcome()
	if outcome == chess.NoOutcome || method != chess.Checkmate {
		t.Fatalf("expected checkmate outcome, got outcome=%v method=%v", outcome, method)
	}
}

func TestNewFromFENRejectsMalformedFEN(t *testing.T) {
	if _, err := NewFromFEN("not a fen"); err == nil {
		t.Fatalf("expected an error for a malformed FEN string")
	}
}

func TestPositionApplyReturnsGameStateInterface(t *testing.T) {
	state := NewGame()
	pos := NewPosition(state)

	next := pos.Apply(pos.LegalMoves()[0])
	if next.Terminal() {
		t.Fatalf("one move from the start position should never be terminal")
	}
	if next.Hash() == pos.Hash() {
		t.Fatalf("expected the position's hash to change after a move")
	}
}
