package mcts

import "testing"

// loopState is a tiny three-node graph (root -> a -> b -> a) used to force a
// genuine transposition within a single Playout descent: b's only move
// reaches a state with a's own hash, so resolveChild links back into a's
// already-installed Node instead of allocating a fresh one.
type loopState struct {
	id int
}

const (
	loopRoot = 0
	loopA    = 1
	loopB    = 2
)

func (s loopState) Player() struct{} { return struct{}{} }

func (s loopState) LegalMoves() []int {
	switch s.id {
	case loopRoot:
		return []int{loopA}
	case loopA:
		return []int{loopB}
	case loopB:
		return []int{loopA} // cycles back into the already-visited ancestor
	}
	return nil
}

func (s loopState) Apply(m int) GameState[int, struct{}] { return loopState{id: m} }
func (s loopState) Hash() uint64                         { return uint64(s.id) }
func (s loopState) Terminal() bool                       { return false }

// loopEvaluator tags each state with a distinct eval so a test can tell
// which branch of resolveCycle produced a given Result: loopA's node always
// evaluates to 0.3, loopB's to 0.7.
type loopEvaluator struct{}

func (loopEvaluator) EvaluateNewState(state GameState[int, struct{}], moves []int) ([]float32, float64) {
	priors := make([]float32, len(moves))
	for i := range priors {
		priors[i] = 1.0 / float32(len(moves))
	}
	s := state.(loopState)
	switch s.id {
	case loopA:
		return priors, 0.3
	case loopB:
		return priors, 0.7
	default:
		return priors, 0.1
	}
}

func (loopEvaluator) EvaluateExistingState(state GameState[int, struct{}], priorValue float64, _ Handle) float64 {
	return priorValue
}

func (loopEvaluator) InterpretEvaluationForPlayer(eval float64, _ struct{}) Result {
	return Result(eval)
}

func newLoopTree(behaviour CycleBehaviour, fixedEval float64) *SearchTree[int, struct{}, float64, struct{}] {
	arena := NewArena[int, float64, struct{}](DefaultSlabSize)
	table := NewTable[int, float64, struct{}](8)
	tree := NewSearchTree[int, struct{}, float64, struct{}](
		loopState{id: loopRoot}, loopEvaluator{}, NewUCB1[int, float64, struct{}](1.0), arena, table)
	tree.CycleBehaviour = behaviour
	tree.FixedCycleEval = fixedEval
	return tree
}

func TestPlayoutCycleUseCurrentEvalReturnsAncestorsStoredEval(t *testing.T) {
	tree := newLoopTree(CycleUseCurrentEval, 0.99)
	al := tree.Arena.NewAllocator()

	result := tree.Playout(al)
	if result != 0.3 {
		t.Fatalf("expected CycleUseCurrentEval to return loopA's stored eval (0.3), got %v", result)
	}
}

func TestPlayoutCycleIgnoreReturnsAncestorsStoredEval(t *testing.T) {
	// CycleIgnore's current implementation stops and reports the ancestor's
	// eval exactly like CycleUseCurrentEval, rather than continuing descent.
	tree := newLoopTree(CycleIgnore, 0.99)
	al := tree.Arena.NewAllocator()

	result := tree.Playout(al)
	if result != 0.3 {
		t.Fatalf("expected CycleIgnore to return loopA's stored eval (0.3), got %v", result)
	}
}

func TestPlayoutCycleUseThisEvalIgnoresAncestorAndEvaluator(t *testing.T) {
	tree := newLoopTree(CycleUseThisEval, 0.42)
	al := tree.Arena.NewAllocator()

	result := tree.Playout(al)
	if result != 0.42 {
		t.Fatalf("expected CycleUseThisEval to return FixedCycleEval (0.42) untouched, got %v", result)
	}
}

func TestPlayoutCyclePanicPanics(t *testing.T) {
	tree := newLoopTree(CyclePanic, 0)
	al := tree.Arena.NewAllocator()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected CyclePanic to panic on a detected cycle")
		}
	}()
	tree.Playout(al)
}
