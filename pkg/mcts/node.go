package mcts

import "sync/atomic"

// Node flag bits, read/written only through the atomic helpers below.
const (
	canExpandFlag uint32 = 0
	expandingFlag uint32 = 1
	expandedFlag  uint32 = 2
	terminalFlag  uint32 = 4
)

// Node is one position in the search tree: the Evaluator's opaque
// evaluation for this state, the move-ordered list of outgoing Edges, and
// the CAS-guarded expand-state flags that let many goroutines race to expand
// the same node safely (exactly one wins).
type Node[M Move, E any, D any] struct {
	Eval  E
	Data  D
	Edges []Edge[M, E, D]
	hash  uint64
	flags atomic.Uint32
	// visits counts how many times this node was the current node during
	// selection (used as the parent-visit term in tree policies, and as
	// the threshold counter for VisitsBeforeExpansion).
	visits atomic.Int32
}

// Hash is the GameState.Hash() value this node was installed under in the
// transposition table.
func (n *Node[M, E, D]) Hash() uint64 {
	return n.hash
}

// Visits returns the number of times this node was visited during selection.
func (n *Node[M, E, D]) Visits() int32 {
	return n.visits.Load()
}

// Terminal reports whether this node represents a finished game state
// (checkmate, stalemate, or any other domain-defined terminal condition).
func (n *Node[M, E, D]) Terminal() bool {
	return n.flags.Load()&terminalFlag == terminalFlag
}

func (n *Node[M, E, D]) setTerminal(terminal bool) {
	if terminal {
		n.flags.Store(terminalFlag)
	}
}

// Expanded reports whether this node's Edges have already been populated.
func (n *Node[M, E, D]) Expanded() bool {
	return n.flags.Load()&expandedFlag == expandedFlag
}

// Expanding reports whether some other goroutine is currently populating
// this node's Edges.
func (n *Node[M, E, D]) Expanding() bool {
	return n.flags.Load()&expandingFlag == expandingFlag
}

// TryStartExpand attempts to transition this node from "not expanded" to
// "expanding", returning true exactly once across however many goroutines
// call it concurrently. The winner must call FinishExpand after populating
// Edges.
func (n *Node[M, E, D]) TryStartExpand() bool {
	return n.flags.CompareAndSwap(canExpandFlag, expandingFlag)
}

// FinishExpand marks the node expanded, releasing any goroutines spin-waiting
// in Expanding().
func (n *Node[M, E, D]) FinishExpand() {
	n.flags.Store(expandedFlag)
}
