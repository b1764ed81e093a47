// Package arena plays two move-selecting agents against each other over a
// shared GameState and tallies wins, losses, and draws, generalizing the
// teacher library's pkg/bench versus-arena harness (which plays two
// concrete mcts.MCTS[T,S,R,O,A] trees against each other) to this module's
// Evaluator-driven, GameState/Manager split: an Agent here is just "pick a
// move from this state", so either a *mcts.Manager.BestMove closure, a
// fixed opening book, or a random mover can play either seat.
package arena

import (
	"sync"
	"sync/atomic"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

// Agent picks the move to play from the current state. Typically a closure
// around a *mcts.Manager: run a search, then return BestMove.
type Agent[M mcts.Move, P mcts.Player] func(state mcts.GameState[M, P]) M

// Outcome is a single game's result from the seat-agnostic "player 1 / 2"
// perspective the Arena tracks (not White/Black or first/second to move).
type Outcome int

const (
	Player1Win Outcome = iota
	Player2Win
	Draw
)

// WinnerFunc judges a terminal GameState from mover's perspective: mover is
// whichever player was about to move into the now-terminal state, i.e. the
// player the GameState.Player() of the pre-terminal state named. Returning
// Result close to 1 means mover won; close to 0 means mover lost; 0.5 is a
// draw. This mirrors how CycleUseCurrentEval/mcts.Evaluator already scores
// positions, so the same Evaluator used for search can judge game endings.
type WinnerFunc[M mcts.Move, P mcts.Player] func(state mcts.GameState[M, P], mover P) mcts.Result

// Stats tallies completed games. Safe for concurrent increment; read the
// fields only after Play returns.
type Stats struct {
	P1Wins uint32
	P2Wins uint32
	Draws  uint32
}

func (s *Stats) Total() int { return int(atomic.LoadUint32(&s.P1Wins) + atomic.LoadUint32(&s.P2Wins) + atomic.LoadUint32(&s.Draws)) }

func (s *Stats) record(o Outcome) {
	switch o {
	case Player1Win:
		atomic.AddUint32(&s.P1Wins, 1)
	case Player2Win:
		atomic.AddUint32(&s.P2Wins, 1)
	default:
		atomic.AddUint32(&s.Draws, 1)
	}
}

// VersusArena plays NGames games of agent1 vs agent2, split across
// NThreads goroutines, alternating who moves first each game so neither
// agent is systematically favored by first-move advantage.
//
// Grounded on the teacher library's pkg/bench.VersusArena: NewGame/worker
// fan-out/toAgentResult survive in spirit as NewGame/the per-game loop in
// playGame/the Outcome mapping, generalized away from the teacher's
// PositionLike+ExtMCTS coupling since this module's Manager already knows
// nothing about game rules beyond the GameState interface.
type VersusArena[M mcts.Move, P mcts.Player] struct {
	NewGame  func() mcts.GameState[M, P]
	Winner   WinnerFunc[M, P]
	NGames   int
	NThreads int
	MaxPlies int // safety valve against a buggy Agent looping forever; 0 = teacher default of 512
}

// NewVersusArena builds an arena with the teacher's defaults (100 games,
// GOMAXPROCS-sized default left to the caller via NThreads).
func NewVersusArena[M mcts.Move, P mcts.Player](newGame func() mcts.GameState[M, P], winner WinnerFunc[M, P]) *VersusArena[M, P] {
	return &VersusArena[M, P]{NewGame: newGame, Winner: winner, NGames: 100, NThreads: 1, MaxPlies: 512}
}

// Play runs the configured number of games and returns the aggregate Stats.
func (a *VersusArena[M, P]) Play(agent1, agent2 Agent[M, P]) Stats {
	threads := max(1, a.NThreads)
	var stats Stats

	share := a.NGames / threads
	remainder := a.NGames % threads

	var wg sync.WaitGroup
	for id := 0; id < threads; id++ {
		count := share
		if id < remainder {
			count++
		}
		wg.Add(1)
		go func(id, count int) {
			defer wg.Done()
			for i := 0; i < count; i++ {
				p1First := i%2 == 0
				outcome := a.playGame(agent1, agent2, p1First)
				stats.record(outcome)
			}
		}(id, count)
	}
	wg.Wait()
	return stats
}

// playGame plays one game to completion and returns the result from
// player 1's perspective, regardless of who actually moved first.
func (a *VersusArena[M, P]) playGame(agent1, agent2 Agent[M, P], p1First bool) Outcome {
	state := a.NewGame()
	first, second := agent1, agent2
	if !p1First {
		first, second = agent2, agent1
	}

	maxPlies := a.MaxPlies
	if maxPlies == 0 {
		maxPlies = 512
	}

	// firstSeatToMove tracks whose turn it is in terms of the "first"/
	// "second" seat (not player 1/2 directly), so the final mover's seat is
	// always known without comparing func values, which Go forbids.
	firstSeatToMove := true
	var mover P
	var lastMoverWasFirstSeat bool
	for ply := 0; ply < maxPlies && !state.Terminal(); ply++ {
		mover = state.Player()
		var move M
		if firstSeatToMove {
			move = first(state)
		} else {
			move = second(state)
		}
		state = state.Apply(move)
		lastMoverWasFirstSeat = firstSeatToMove
		firstSeatToMove = !firstSeatToMove
	}

	result := a.Winner(state, mover)
	switch {
	case result > 0.5:
		return outcomeFor(p1First, lastMoverWasFirstSeat)
	case result < 0.5:
		return outcomeFor(p1First, !lastMoverWasFirstSeat)
	default:
		return Draw
	}
}

// outcomeFor maps "did the first-to-move seat win" to a Player1Win/
// Player2Win Outcome, given whether player 1 actually went first this game.
func outcomeFor(p1First, firstSeatWon bool) Outcome {
	if p1First == firstSeatWon {
		return Player1Win
	}
	return Player2Win
}
