package mcts

import (
	"fmt"
	"sync/atomic"
)

// Edge is one outgoing move from a Node: the move itself, its prior from the
// Evaluator, and the atomic visit/reward counters the tree policy reads.
// The child it points at is installed lazily, once, via the transposition
// table (see SearchTree.resolveChild and Table.InsertOrGet) so that a transposing
// position is shared rather than duplicated.
type Edge[M Move, E any, D any] struct {
	Move  M
	Prior float32

	rewardFixed atomic.Int64 // Result accumulated at Scale precision
	visits      atomic.Int32
	virtualLoss atomic.Int32

	child atomic.Pointer[Node[M, E, D]]
}

// Child returns the node this edge currently points to, or nil if it hasn't
// been expanded into yet.
func (e *Edge[M, E, D]) Child() *Node[M, E, D] {
	return e.child.Load()
}

// SetChildIfAbsent installs child unless another thread raced us to it,
// returning the node that ended up installed (ours or the winner's).
func (e *Edge[M, E, D]) SetChildIfAbsent(child *Node[M, E, D]) *Node[M, E, D] {
	if e.child.CompareAndSwap(nil, child) {
		return child
	}
	return e.child.Load()
}

// AddReward compounds a new Result into this edge's running total.
func (e *Edge[M, E, D]) AddReward(r Result) {
	e.rewardFixed.Add(int64(r * Scale))
}

// MeanReward returns the average Result recorded on this edge, 0 if unvisited.
func (e *Edge[M, E, D]) MeanReward() float64 {
	visits, vl := e.GetVvl()
	actual := visits - vl
	if actual <= 0 {
		return 0
	}
	return float64(e.rewardFixed.Load()) / Scale / float64(actual)
}

// RawReward returns the accumulated Result total, not divided by any visit
// count. Tree policies use this together with the raw (virtual-loss
// inflated) Visits() count, rather than MeanReward's virtual-loss-cancelled
// actual count, so that a concurrent in-flight descent pessimistically
// biases sibling edges during selection instead of being a no-op.
func (e *Edge[M, E, D]) RawReward() float64 {
	return float64(e.rewardFixed.Load()) / Scale
}

// GetVvl reads visits and virtual loss together, retrying until it observes
// a consistent pair (virtualLoss <= visits always holds at rest).
func (e *Edge[M, E, D]) GetVvl() (visits int32, virtualLoss int32) {
	for {
		visits = e.visits.Load()
		virtualLoss = e.virtualLoss.Load()
		if virtualLoss <= visits {
			return visits, virtualLoss
		}
	}
}

// RealVisits returns visits minus any currently-applied virtual loss.
func (e *Edge[M, E, D]) RealVisits() int32 {
	visits, vl := e.GetVvl()
	return visits - vl
}

// AddVvl atomically adjusts both counters, used both to apply virtual loss
// on descent and to revert it exactly during backpropagation.
func (e *Edge[M, E, D]) AddVvl(visits, virtualLoss int32) {
	e.virtualLoss.Add(virtualLoss)
	e.visits.Add(visits)
}

// SetVvl resets both counters to specific values; panics if it would break
// the virtualLoss <= visits invariant.
func (e *Edge[M, E, D]) SetVvl(visits, virtualLoss int32) {
	if virtualLoss > visits {
		panic(fmt.Sprintf("mcts: virtual loss (%d) cannot exceed visits (%d)", virtualLoss, visits))
	}
	e.virtualLoss.Store(virtualLoss)
	e.visits.Store(visits)
}

// Visits returns the raw visit counter, including any outstanding virtual loss.
func (e *Edge[M, E, D]) Visits() int32 {
	return e.visits.Load()
}
