package mcts

import (
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
)

// CycleBehaviour selects what a Playout does when descent would revisit a
// node already on its own path (a transposition back into an ancestor).
//
// Ported from the original Rust mcts crate's CycleBehaviour enum; the
// teacher library has no transposition table so it has no equivalent.
type CycleBehaviour int

const (
	// CycleIgnore stops descent at the repeated node and uses its recorded
	// evaluation, giving the same result as CycleUseCurrentEval; descent
	// does not continue into the ancestor.
	CycleIgnore CycleBehaviour = iota
	// CycleUseCurrentEval stops descent and uses the ancestor's already
	// recorded evaluation as this playout's result.
	CycleUseCurrentEval
	// CycleUseThisEval uses SearchTree.FixedCycleEval as the result, without
	// touching the Evaluator or the ancestor node at all.
	CycleUseThisEval
	// CyclePanic treats any cycle as a programmer error in GameState/
	// Evaluator and panics; useful during development of a new domain.
	CyclePanic
)

// SearchTree owns one shared game tree: the arena its nodes are allocated
// from, the transposition table nodes are installed into, the tree policy
// used for selection, and the Evaluator driving expansion.
//
// Grounded on the teacher's MCTS struct (pkg/mcts/mcts.go) and Search/
// Selection pair (pkg/mcts/search.go), adapted to the Evaluator-driven,
// transposition-table-backed design the original Rust mcts crate uses.
type SearchTree[M Move, P Player, E any, D any] struct {
	Arena     *Arena[M, E, D]
	Table     *Table[M, E, D]
	Policy    TreePolicy[M, E, D]
	Evaluator Evaluator[M, P, E]

	Root      *Node[M, E, D]
	rootState GameState[M, P]

	// CycleBehaviour governs how Playout reacts to a transposition back
	// into an ancestor on the current path.
	CycleBehaviour CycleBehaviour
	// FixedCycleEval is the value CycleUseThisEval returns on every cycle,
	// mirroring the original Rust mcts crate's
	// CycleBehaviour::UseThisEvalWhenCycleDetected(StateEvaluation<Spec>)
	// payload. Unused by the other three CycleBehaviour values.
	FixedCycleEval E
	// VisitsBeforeExpansion delays expanding a freshly-created leaf until
	// it's been visited this many times (default 1: expand immediately).
	VisitsBeforeExpansion int32

	size       atomic.Int64
	collisions atomic.Int64
	maxDepth   atomic.Int32
}

// NewSearchTree builds a tree rooted at state, sharing arena and table
// (pass a fresh Table to start cold, or a previous search's Table to warm-
// start, see Manager.Table).
func NewSearchTree[M Move, P Player, E any, D any](
	state GameState[M, P],
	evaluator Evaluator[M, P, E],
	policy TreePolicy[M, E, D],
	arena *Arena[M, E, D],
	table *Table[M, E, D],
) *SearchTree[M, P, E, D] {
	t := &SearchTree[M, P, E, D]{
		Arena:                 arena,
		Table:                 table,
		Policy:                policy,
		Evaluator:             evaluator,
		rootState:             state,
		VisitsBeforeExpansion: 1,
	}

	al := arena.NewAllocator()
	var zero E
	fresh := t.newNodeFor(al, state, zero, 0)
	t.Root = t.Table.InsertOrGet(state.Hash(), fresh)
	if t.Root == fresh {
		t.size.Add(1)
	}
	return t
}

// newNodeFor allocates a node for state and gives it a placeholder Eval via
// EvaluateExistingState, passing priorValue — the parent's own eval, the
// cheapest defensible guess for a node that hasn't been expanded yet — and
// depth for Handle. The placeholder is almost always overwritten on this
// same node's first expand; it only survives for terminal nodes, which never
// expand, so EvaluateExistingState implementations must still special-case
// terminal states rather than trust priorValue blindly.
func (t *SearchTree[M, P, E, D]) newNodeFor(al *Allocator[M, E, D], state GameState[M, P], priorValue E, depth int) *Node[M, E, D] {
	n := al.Alloc()
	*n = Node[M, E, D]{hash: state.Hash()}
	n.setTerminal(state.Terminal())
	n.Eval = t.Evaluator.EvaluateExistingState(state, priorValue, Handle{Depth: depth})
	return n
}

// Size returns the number of nodes installed in the tree so far.
func (t *SearchTree[M, P, E, D]) Size() int64 {
	return t.size.Load()
}

// Collisions returns how many spin-wait iterations search goroutines ran
// while waiting for another thread's in-progress expansion.
func (t *SearchTree[M, P, E, D]) Collisions() int64 {
	return t.collisions.Load()
}

// MaxDepth returns the deepest selection path observed by any Playout so far.
func (t *SearchTree[M, P, E, D]) MaxDepth() int32 {
	return t.maxDepth.Load()
}

type pathStep[M Move, E any, D any] struct {
	edge *Edge[M, E, D]
}

// Playout runs one full selection, expansion, evaluation and
// backpropagation cycle against the shared tree and returns the Result
// recorded on the last edge of the path, from the point of view of the
// player who chose that edge.
//
// Selection descends edges chosen by Policy, applying VirtualLoss on every
// edge traversed so concurrent goroutines fan out across different lines.
// Expansion happens at most once per node (guarded by Node's CAS flags) and
// installs the new node into Table, so a transposing line shares the same
// node rather than duplicating it. Backpropagation walks the path back to
// the root, reverting virtual loss exactly and compounding the result,
// flipping perspective at every level (the game is assumed two-player
// zero-sum from the Evaluator's point of view; InterpretEvaluationForPlayer
// handles the player-relative sign).
//
// Grounded on the teacher's Search/Selection (spin-wait-on-Expanding
// pattern, virtual loss application) and the original Rust mcts crate's
// playout loop for CycleBehaviour handling, which the teacher has no
// equivalent of.
func (t *SearchTree[M, P, E, D]) Playout(al *Allocator[M, E, D]) Result {
	node := t.Root
	state := t.rootState
	mover := state.Player()
	hashPath := []uint64{node.Hash()}
	var path []pathStep[M, E, D]
	depth := 0

	for {
		node.visits.Add(1)

		if node.Terminal() {
			break
		}

		if !node.Expanded() {
			if node.visits.Load() >= t.VisitsBeforeExpansion {
				t.expand(node, state)
			}
			if !node.Expanded() {
				break
			}
		}

		parentVisits := node.visits.Load()
		idx := t.Policy.Select(node, parentVisits)
		edge := &node.Edges[idx]
		edge.AddVvl(VirtualLoss, VirtualLoss)
		path = append(path, pathStep[M, E, D]{edge: edge})

		nextState := state.Apply(edge.Move)
		depth++

		child, cycled := t.resolveChild(al, edge, nextState, hashPath, node.Eval, depth)
		if cycled {
			result := t.resolveCycle(t.CycleBehaviour, child, state, depth)
			t.backprop(path, result)
			t.updateMaxDepth(depth)
			return result
		}

		mover = state.Player()
		node = child
		state = nextState
		hashPath = append(hashPath, node.Hash())
	}

	t.updateMaxDepth(depth)
	result := t.Evaluator.InterpretEvaluationForPlayer(node.Eval, mover)
	t.backprop(path, result)
	return result
}

func (t *SearchTree[M, P, E, D]) resolveCycle(behaviour CycleBehaviour, child *Node[M, E, D], state GameState[M, P], depth int) Result {
	switch behaviour {
	case CycleUseCurrentEval:
		return t.Evaluator.InterpretEvaluationForPlayer(child.Eval, state.Player())
	case CycleUseThisEval:
		return t.Evaluator.InterpretEvaluationForPlayer(t.FixedCycleEval, state.Player())
	case CyclePanic:
		panic(errors.Errorf("mcts: cycle detected at depth %d", depth))
	default: // CycleIgnore
		return t.Evaluator.InterpretEvaluationForPlayer(child.Eval, state.Player())
	}
}

func (t *SearchTree[M, P, E, D]) updateMaxDepth(depth int) {
	for {
		cur := t.maxDepth.Load()
		if int32(depth) <= cur {
			return
		}
		if t.maxDepth.CompareAndSwap(cur, int32(depth)) {
			return
		}
	}
}

// expand populates node.Edges exactly once, no matter how many goroutines
// call expand on the same node concurrently; losers spin-wait on Expanding.
func (t *SearchTree[M, P, E, D]) expand(node *Node[M, E, D], state GameState[M, P]) {
	if !node.TryStartExpand() {
		for node.Expanding() {
			t.collisions.Add(1)
			runtime.Gosched()
		}
		return
	}

	moves := state.LegalMoves()
	if len(moves) == 0 {
		node.FinishExpand()
		node.setTerminal(true)
		return
	}

	priors, eval := t.Evaluator.EvaluateNewState(state, moves)
	edges := make([]Edge[M, E, D], len(moves))
	for i, m := range moves {
		edges[i].Move = m
		if i < len(priors) {
			edges[i].Prior = priors[i]
		}
	}
	node.Edges = edges
	node.Eval = eval
	node.FinishExpand()
}

// resolveChild returns the node edge now points to (installing a fresh one
// into Table if nothing was there yet) and whether that node is already an
// ancestor on hashPath, i.e. a cycle. parentEval and depth are only used if a
// fresh node needs allocating, see newNodeFor.
func (t *SearchTree[M, P, E, D]) resolveChild(al *Allocator[M, E, D], edge *Edge[M, E, D], state GameState[M, P], hashPath []uint64, parentEval E, depth int) (*Node[M, E, D], bool) {
	if child := edge.Child(); child != nil {
		return child, containsHash(hashPath, child.Hash())
	}

	hash := state.Hash()
	if existing, ok := t.Table.Get(hash); ok {
		resolved := edge.SetChildIfAbsent(existing)
		return resolved, containsHash(hashPath, resolved.Hash())
	}

	fresh := t.newNodeFor(al, state, parentEval, depth)
	installed := t.Table.InsertOrGet(hash, fresh)
	resolved := edge.SetChildIfAbsent(installed)
	if resolved == fresh {
		t.size.Add(1)
	}
	return resolved, containsHash(hashPath, resolved.Hash())
}

func containsHash(path []uint64, h uint64) bool {
	for _, v := range path {
		if v == h {
			return true
		}
	}
	return false
}

// backprop walks path from the leaf back to the root, reverting virtual
// loss exactly (AddVvl(1-VirtualLoss, -VirtualLoss) cancels the
// AddVvl(VirtualLoss, VirtualLoss) Playout applied on descent, leaving a net
// +1 visit and 0 virtual loss) and compounding result, flipping perspective
// at every level.
//
// Grounded on the teacher's DefaultBackprop.Backpropagate.
func (t *SearchTree[M, P, E, D]) backprop(path []pathStep[M, E, D], result Result) {
	for i := len(path) - 1; i >= 0; i-- {
		edge := path[i].edge
		edge.AddVvl(1-VirtualLoss, -VirtualLoss)
		edge.AddReward(result)
		result = 1 - result
	}
}
