package mcts

import "github.com/chewxy/math32"

// TreePolicy picks which outgoing edge of parent to descend into next.
// Implementations must be safe to call concurrently from multiple search
// goroutines against the same parent; the standard library's math/rand is
// deliberately not touched here (selection is otherwise-deterministic given
// the atomic snapshots it reads).
type TreePolicy[M Move, E any, D any] interface {
	// Select returns the index into parent.Edges of the edge to descend.
	// parentVisits is the parent node's own selection-visit count (which
	// virtual loss does not touch), passed in rather than re-read so every
	// edge in one selection pass sees a consistent snapshot.
	Select(parent *Node[M, E, D], parentVisits int32) int
}

// PUCT is the default tree policy: Q(s,a) + C*P(s,a)*sqrt(N)/(1+n), the
// formula AlphaZero-style engines use to balance the Evaluator's priors
// against empirical reward.
//
// Grounded on the alphabeth package's Node.Select PUCT implementation.
type PUCT[M Move, E any, D any] struct {
	C float32
}

// NewPUCT returns a PUCT policy with the given exploration constant.
func NewPUCT[M Move, E any, D any](c float32) *PUCT[M, E, D] {
	return &PUCT[M, E, D]{C: c}
}

func (p *PUCT[M, E, D]) Select(parent *Node[M, E, D], parentVisits int32) int {
	sqrtParent := math32.Sqrt(float32(max(parentVisits, 1)))
	best := 0
	bestScore := float32(math32.Inf(-1))
	for i := range parent.Edges {
		e := &parent.Edges[i]
		rawVisits := e.Visits()

		// GetVvl/actual is used only to detect a genuinely unvisited edge;
		// the score itself reads the raw, virtual-loss-inflated visit
		// count, so a concurrent in-flight descent pessimistically
		// depresses this edge's score for the sibling goroutines still
		// selecting at the same parent instead of being invisible to them.
		var q float32
		if e.RealVisits() > 0 {
			q = float32(e.RawReward() / float64(rawVisits))
		}
		u := p.C * e.Prior * sqrtParent / float32(1+rawVisits)
		score := q + u
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// UCB1 is the classical exploration/exploitation tree policy, kept as a
// pluggable alternative to PUCT for domains with no learned priors (the
// counting-game demo uses it).
//
// Grounded on the teacher library's UCB1.Select (unvisited-first, then
// wins/visits + C*sqrt(ln(parentVisits)/visits)).
type UCB1[M Move, E any, D any] struct {
	C float64
}

// NewUCB1 returns a UCB1 policy with the given exploration constant.
func NewUCB1[M Move, E any, D any](c float64) *UCB1[M, E, D] {
	return &UCB1[M, E, D]{C: c}
}

func (u *UCB1[M, E, D]) Select(parent *Node[M, E, D], parentVisits int32) int {
	lnParentVisits := math32.Log(float32(max(parentVisits, 1)))
	best := 0
	bestScore := float32(-1)
	for i := range parent.Edges {
		e := &parent.Edges[i]

		// Pick the unvisited one (checked against the virtual-loss-
		// cancelled actual count, not the raw one: an edge with only an
		// in-flight virtual loss and no real visit yet is still unvisited).
		if e.RealVisits() == 0 {
			return i
		}

		// wins/visits + C*sqrt(ln(parentVisits)/visits), both reading the
		// raw (virtual-loss-inflated) visit count, matching the teacher's
		// UCB1.Select: an edge a sibling goroutine is already descending
		// scores pessimistically lower for everyone else, instead of
		// virtual loss cancelling out of both the numerator and the
		// denominator and becoming a no-op.
		rawVisits := e.Visits()
		score := float32(e.RawReward()/float64(rawVisits)) +
			float32(u.C)*math32.Sqrt(lnParentVisits/float32(rawVisits))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}
