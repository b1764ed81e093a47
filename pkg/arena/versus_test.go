package arena

import (
	"testing"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

// nimState is a classic subtraction game: players alternate removing 1-3
// stones, and whoever removes the last stone wins. Used here the way the
// teacher's bench package tests its arena against a trivial dummy position.
type nimState struct {
	n    int
	turn string
}

func (s nimState) Player() string { return s.turn }

func (s nimState) LegalMoves() []int {
	if s.n == 0 {
		return nil
	}
	max := min(3, s.n)
	moves := make([]int, max)
	for i := range moves {
		moves[i] = i + 1
	}
	return moves
}

func (s nimState) Apply(m int) mcts.GameState[int, string] {
	next := "B"
	if s.turn == "B" {
		next = "A"
	}
	return nimState{n: s.n - m, turn: next}
}

func (s nimState) Hash() uint64 { return uint64(s.n)*2 + boolToUint(s.turn == "A") }
func (s nimState) Terminal() bool { return s.n == 0 }

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// nimWinner: the arena only ever calls Winner once a game is Terminal, and
// by that point `mover` is the player who took the last stone (see
// VersusArena.playGame), who always wins this game's rule.
func nimWinner(state mcts.GameState[int, string], mover string) mcts.Result {
	return 1
}

// optimalAgent always leaves a multiple of 4 stones for the opponent when
// it can, the textbook winning strategy for this subtraction game.
func optimalAgent(state mcts.GameState[int, string]) int {
	s := state.(nimState)
	if rem := s.n % 4; rem != 0 {
		return rem
	}
	return 1
}

// alwaysOneAgent always takes a single stone.
func alwaysOneAgent(state mcts.GameState[int, string]) int {
	return 1
}

func TestVersusArenaOptimalAgentAlwaysWins(t *testing.T) {
	newGame := func() mcts.GameState[int, string] { return nimState{n: 7, turn: "A"} }

	a := NewVersusArena[int, string](newGame, nimWinner)
	a.NGames = 40
	a.NThreads = 4

	stats := a.Play(optimalAgent, alwaysOneAgent)

	if stats.Total() != 40 {
		t.Fatalf("expected 40 completed games, got %d", stats.Total())
	}
	if stats.P1Wins != 40 || stats.P2Wins != 0 {
		t.Fatalf("expected the optimal agent to win every game regardless of seat, got p1=%d p2=%d draws=%d",
			stats.P1Wins, stats.P2Wins, stats.Draws)
	}
}

func TestVersusArenaDrawIsRecorded(t *testing.T) {
	newGame := func() mcts.GameState[int, string] { return nimState{n: 1, turn: "A"} }
	drawWinner := func(state mcts.GameState[int, string], mover string) mcts.Result { return 0.5 }

	a := NewVersusArena[int, string](newGame, drawWinner)
	a.NGames = 10
	a.NThreads = 2

	stats := a.Play(optimalAgent, alwaysOneAgent)
	if stats.Draws != 10 {
		t.Fatalf("expected all 10 games to be recorded as draws, got %d", stats.Draws)
	}
}
