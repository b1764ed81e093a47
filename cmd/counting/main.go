// Command counting is the smallest possible instantiation of pkg/mcts: a
// single-player game where each move is +1 or -1 and the Evaluator always
// prefers the side that has accumulated more +1s. It exists to exercise the
// generic engine end to end without any chess-specific machinery, the way
// the teacher's tic-tac-toe example exercises its own core.
package main

import (
	"flag"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

// countState is a move counter game: from depth 0 to maxDepth, each ply
// picks +1 or -1, and the Evaluator rewards lines that picked +1 more often.
type countState struct {
	sum      int
	depth    int
	maxDepth int
}

func (s countState) Player() struct{} { return struct{}{} }

func (s countState) LegalMoves() []int {
	if s.depth >= s.maxDepth {
		return nil
	}
	return []int{1, -1}
}

func (s countState) Apply(m int) mcts.GameState[int, struct{}] {
	return countState{sum: s.sum + m, depth: s.depth + 1, maxDepth: s.maxDepth}
}

func (s countState) Hash() uint64 {
	return uint64(s.depth)*1_000_003 + uint64(s.sum+s.maxDepth+1)
}

func (s countState) Terminal() bool {
	return s.depth >= s.maxDepth
}

// countEvaluator always favors the +1 branch: the more +1 moves a line has
// played, the higher its evaluation.
type countEvaluator struct {
	maxDepth int
}

func (e countEvaluator) EvaluateNewState(state mcts.GameState[int, struct{}], moves []int) ([]float32, float64) {
	s := state.(countState)
	priors := make([]float32, len(moves))
	for i := range priors {
		priors[i] = 1.0 / float32(len(moves))
	}
	return priors, e.normalize(s.sum)
}

func (e countEvaluator) EvaluateExistingState(state mcts.GameState[int, struct{}], _ float64, _ mcts.Handle) float64 {
	s := state.(countState)
	return e.normalize(s.sum)
}

func (e countEvaluator) InterpretEvaluationForPlayer(eval float64, _ struct{}) mcts.Result {
	return mcts.Result(eval)
}

func (e countEvaluator) normalize(sum int) float64 {
	return (float64(sum) + float64(e.maxDepth)) / (2 * float64(e.maxDepth))
}

func main() {
	klog.InitFlags(nil)
	depth := flag.Int("depth", 50, "number of plies in the counting game")
	playouts := flag.Int("playouts", 10_000, "total playouts to run")
	threads := flag.Int("threads", 4, "number of search threads")
	flag.Parse()
	defer klog.Flush()

	root := countState{maxDepth: *depth}
	evaluator := countEvaluator{maxDepth: *depth}
	policy := mcts.NewUCB1[int, float64, struct{}](mcts.ExplorationParam)

	manager := mcts.NewManager[int, struct{}, float64, struct{}](
		root, evaluator, policy, 96)
	manager.Limiter.Limits().SetThreads(*threads)

	manager.PlayoutNParallel(*playouts, *threads)

	best, ok := manager.BestMove(mcts.BestChildMostVisits)
	if !ok {
		klog.Fatal("search produced no root moves")
	}

	pv := manager.PrincipalVariation(mcts.BestChildMostVisits)
	fmt.Printf("best move: %+d\n", best)
	fmt.Printf("principal variation (%d plies): %v\n", len(pv), pv)
	fmt.Println(manager.Diagnose())
}
