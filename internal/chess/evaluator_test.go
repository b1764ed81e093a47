package chess

import (
	"testing"

	"github.com/notnil/chess"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

func TestEvaluateNewStateReturnsOnePriorPerMove(t *testing.T) {
	e := NewEvaluator()
	state := NewPosition(NewGame())
	moves := state.LegalMoves()

	priors, _ := e.EvaluateNewState(state, moves)
	if len(priors) != len(moves) {
		t.Fatalf("expected %d priors, got %d", len(moves), len(priors))
	}

	var sum float32
	for _, p := range priors {
		if p < 0 {
			t.Fatalf("softmax priors must be non-negative, got %v", p)
		}
		sum += p
	}
	if sum < 0.99 || sum > 1.01 {
		t.Fatalf("expected softmax priors to sum to ~1, got %v", sum)
	}
}

func TestInterpretEvaluationForPlayerFlipsForBlack(t *testing.T) {
	e := NewEvaluator()
	white := e.InterpretEvaluationForPlayer(Scale, chess.White)
	black := e.InterpretEvaluationForPlayer(Scale, chess.Black)

	if white <= 0.5 {
		t.Fatalf("a +Scale eval should favor White, got Result=%v", white)
	}
	if black >= 0.5 {
		t.Fatalf("a +Scale eval interpreted for Black should favor Black less, got Result=%v", black)
	}
	if white+black != 1 {
		t.Fatalf("White's and Black's interpretations of the same eval should be complementary, got %v and %v", white, black)
	}
}

func TestEvaluateExistingStateDetectsCheckmate(t *testing.T) {
	state, err := NewFromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("unexpected FEN error: %v", err)
	}
	pos := NewPosition(state)

	e := NewEvaluator()
	// priorValue is deliberately a value checkmate must override, proving
	// terminal detection doesn't just trust the parent's placeholder eval.
	value := e.EvaluateExistingState(pos, Scale, mcts.Handle{})

	// White is checkmated, so the White-relative value must be the minimum.
	if value != -Scale {
		t.Fatalf("expected a checkmated White to score -Scale, got %d", value)
	}
}

func TestEvaluateExistingStateReusesPriorValueWhenNonTerminal(t *testing.T) {
	state := NewPosition(NewGame())
	e := NewEvaluator()

	value := e.EvaluateExistingState(state, 12345, mcts.Handle{Depth: 3})
	if value != 12345 {
		t.Fatalf("expected EvaluateExistingState to echo priorValue for a non-terminal state, got %d", value)
	}
}

func TestEvaluateNewStateShortCircuitsOnTablebaseCoverage(t *testing.T) {
	state, err := NewFromFEN("8/8/8/4k3/8/8/4R3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("unexpected FEN error: %v", err)
	}
	pos := NewPosition(state)
	e := NewEvaluator()

	_, value := e.EvaluateNewState(pos, pos.LegalMoves())
	if value != Scale {
		t.Fatalf("expected a tablebase-covered position to score exactly +Scale regardless of the model, got %d", value)
	}
}

func TestEvaluateExistingStatePanicsOnWrongStateType(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic when passed a GameState that isn't a Position")
		}
	}()
	e := NewEvaluator()
	e.EvaluateExistingState(fakeGameState{}, 0, mcts.Handle{})
}

// fakeGameState satisfies mcts.GameState[Move, chess.Color] without being a
// Position, to exercise the Evaluator's type-assertion guard.
type fakeGameState struct{}

func (fakeGameState) Player() chess.Color { return chess.White }
func (fakeGameState) LegalMoves() []Move  { return nil }
func (f fakeGameState) Apply(Move) mcts.GameState[Move, chess.Color] {
	return f
}
func (fakeGameState) Hash() uint64   { return 0 }
func (fakeGameState) Terminal() bool { return false }

var _ mcts.GameState[Move, chess.Color] = fakeGameState{}
