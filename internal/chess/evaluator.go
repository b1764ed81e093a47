package chess

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

// Evaluator implements mcts.Evaluator[Move, chess.Color, int64]: the
// reference chess instantiation of the generic Evaluator contract.
//
// Pipeline, in order: tablebase probe short-circuit, terminal detection
// (checkmate/stalemate), handcrafted policy features + the reference
// scoring model, softmax priors, player-relative sign flip.
//
// Grounded on _examples/original_source/src/evaluation.rs's GooseEval
// (evaluate_syzygy, evaluate_new_state, interpret_evaluation_for_player).
type Evaluator struct {
	model     Model
	tablebase *Tablebase
}

// NewEvaluator builds the reference chess Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{model: Model{}, tablebase: NewTablebase()}
}

var _ mcts.Evaluator[Move, chess.Color, int64] = (*Evaluator)(nil)

// EvaluateNewState scores a freshly-expanded position.
func (e *Evaluator) EvaluateNewState(state mcts.GameState[Move, chess.Color], moves []Move) ([]float32, int64) {
	pos, ok := state.(Position)
	if !ok {
		panic(errors.New("chess: EvaluateNewState called with a non-Position GameState"))
	}
	board := pos.game.Position().Board()

	if len(board.SquareMap()) <= maxTablebasePieces {
		if value, ok := e.tablebase.Probe(board); ok {
			return e.tablebaseMovePriors(pos, moves), value
		}
	}

	validMoves := pos.game.ValidMoves()
	if len(moves) == 0 {
		return nil, e.terminalValue(pos)
	}

	priors := evaluateMoves(board, validMoves)
	value := int64(e.model.Score(board) * Scale)
	return priors, value
}

// EvaluateExistingState gives a freshly-created, not-yet-expanded node its
// Eval. For a terminal position it still computes the real terminal value,
// since priorValue (the parent's eval) would be the wrong answer regardless
// of how the parent scored. Otherwise it returns priorValue unchanged,
// mirroring the original source's GooseEval::evaluate_existing_state, which
// returns its passed-in evaln untouched: a model/tablebase rescore here
// would be wasted work, since this node gets its own real eval the moment it
// is first expanded.
func (e *Evaluator) EvaluateExistingState(state mcts.GameState[Move, chess.Color], priorValue int64, _ mcts.Handle) int64 {
	pos, ok := state.(Position)
	if !ok {
		panic(errors.New("chess: EvaluateExistingState called with a non-Position GameState"))
	}
	if pos.Terminal() {
		return e.terminalValue(pos)
	}
	return priorValue
}

// InterpretEvaluationForPlayer flips the White-relative StateEval for Black,
// matching the original source's interpret_evaluation_for_player.
func (e *Evaluator) InterpretEvaluationForPlayer(eval int64, p chess.Color) mcts.Result {
	if p == chess.Black {
		eval = -eval
	}
	// Map the [-Scale, Scale] fixed-point value into mcts.Result's [0, 1].
	return mcts.Result((float64(eval)/float64(Scale) + 1) / 2)
}

func (e *Evaluator) terminalValue(pos Position) int64 {
	outcome, method := pos.Outcome()
	if outcome == chess.NoOutcome {
		panic(errors.New("chess: terminalValue called on a non-terminal position"))
	}
	if method != chess.Checkmate {
		return 0 // stalemate or any other draw
	}
	// The side to move is checkmated, i.e. it lost.
	if pos.Player() == chess.White {
		return -Scale
	}
	return Scale
}

// tablebaseMovePriors assigns a prior of 1 to the tablebase's best move and 0
// to every other move, then softmaxes — mirroring the original source's
// evaluate_syzygy move-scoring step. moves and validMoves are the same legal
// moves in the same order (see State.LegalMoves), moves as UCI strings and
// validMoves as notnil/chess's own *Move, which BestMove needs for square
// arithmetic.
func (e *Evaluator) tablebaseMovePriors(pos Position, moves []Move) []float32 {
	board := pos.game.Position().Board()
	validMoves := pos.game.ValidMoves()

	if best, ok := e.tablebase.BestMove(board, pos.Player(), validMoves); ok {
		scores := make([]float32, len(moves))
		for i, m := range validMoves {
			if m == best {
				scores[i] = 1
				break
			}
		}
		return softmax(scores)
	}

	// Outside BestMove's coverage: fall back to the handcrafted policy
	// features so priors still discriminate between candidate moves.
	return evaluateMoves(board, validMoves)
}
