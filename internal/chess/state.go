// Package chess instantiates pkg/mcts for standard chess: a GameState
// backed by github.com/notnil/chess, and an Evaluator combining a tiny
// endgame tablebase heuristic, a tiny material-count scoring model, and
// handcrafted move-ordering features.
package chess

import (
	"encoding/binary"

	"github.com/notnil/chess"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

// Move is a UCI move string ("e2e4", "g7f8r" for underpromotion), the same
// notation the teacher's examples/chess wiring and alphabeth's game/chess.go
// both standardize on.
type Move string

// State wraps a notnil/chess.Game. It never mutates in place: Apply returns
// a new State over a cloned game, so a State can be shared freely across
// search goroutines.
//
// Grounded on Elvenson-alphabeth/game/chess.go's Chess wrapper (Apply via
// Clone+MoveStr, equality/hash via Position().Hash()).
type State struct {
	game *chess.Game
}

// NewGame returns the standard chess starting position.
func NewGame() *State {
	return &State{game: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

// NewFromFEN parses a FEN string into a State. Returns an error if fen is
// malformed, matching the original Rust State::from_fen's fallibility.
func NewFromFEN(fen string) (*State, error) {
	fenFn, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return &State{game: chess.NewGame(fenFn, chess.UseNotation(chess.UCINotation{}))}, nil
}

// Game exposes the underlying notnil/chess.Game for callers (the Evaluator,
// cmd/chess) that need board/outcome access beyond the mcts.GameState
// contract.
func (s *State) Game() *chess.Game {
	return s.game
}

// Player returns the color to move.
func (s *State) Player() chess.Color {
	return s.game.Position().Turn()
}

// LegalMoves returns every legal move from this position, as UCI strings,
// in notnil/chess's own (stable) ValidMoves order.
func (s *State) LegalMoves() []Move {
	valid := s.game.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = Move(m.String())
	}
	return moves
}

// Apply returns the state reached by playing m, without mutating s.
func (s *State) Apply(m Move) *State {
	clone := s.game.Clone()
	if err := clone.MoveStr(string(m)); err != nil {
		panic("chess: illegal move " + string(m) + ": " + err.Error())
	}
	return &State{game: clone}
}

// Hash returns the first 8 bytes of the position's Zobrist hash, which is
// enough entropy for the transposition table and cheap to compute per node.
func (s *State) Hash() uint64 {
	h := s.game.Position().Hash()
	return binary.BigEndian.Uint64(h[:8])
}

// Terminal reports whether the game has ended (checkmate, stalemate, or any
// other drawing rule notnil/chess detects).
func (s *State) Terminal() bool {
	return s.game.Outcome() != chess.NoOutcome
}

// Outcome exposes notnil/chess's richer outcome/method pair, used by the
// Evaluator to distinguish checkmate from stalemate/draw.
func (s *State) Outcome() (chess.Outcome, chess.Method) {
	return s.game.Outcome(), s.game.Method()
}

// FEN renders the current position.
func (s *State) FEN() string {
	return s.game.FEN()
}

// Position adapts *State to mcts.GameState[Move, chess.Color]. State itself
// can't implement the generic interface directly: Apply must return the
// interface type, not the concrete *State the rest of this package's
// callers want, so Position is the thin wrapper that does.
type Position struct {
	*State
}

// NewPosition wraps state for use with pkg/mcts.
func NewPosition(state *State) Position {
	return Position{state}
}

// Apply overrides the embedded State.Apply to satisfy mcts.GameState.
func (p Position) Apply(m Move) mcts.GameState[Move, chess.Color] {
	return Position{p.State.Apply(m)}
}

var _ mcts.GameState[Move, chess.Color] = Position{}

