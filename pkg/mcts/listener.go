package mcts

// SearchLine is one reported principal variation: the move chosen at the
// root, the full line of moves behind it, its evaluation, and whether it
// ends the game.
type SearchLine[M Move] struct {
	BestMove M
	Moves    []M
	Eval     float64
	Terminal bool
}

// ListenerTreeStats is the snapshot handed to StatsListener callbacks.
type ListenerTreeStats[M Move] struct {
	MaxDepth   int
	Cycles     int64
	TimeMs     uint32
	Nps        uint64
	Lines      []SearchLine[M]
	StopReason StopReason
}

// ListenerFunc receives a ListenerTreeStats snapshot.
type ListenerFunc[M Move] func(ListenerTreeStats[M])

// StatsListener wires optional callbacks into the search loop. All three
// hooks are invoked only by the coordinating (thread 0) goroutine, so a
// caller never needs to synchronize inside them.
//
// Grounded on the teacher's StatsListener/ListenerTreeStats
// (pkg/mcts/stats_listener.go).
type StatsListener[M Move] struct {
	onDepth ListenerFunc[M]
	onCycle ListenerFunc[M]
	onStop  ListenerFunc[M]
	// NCycles is how often (in backprop cycles) OnCycle fires. Evaluating
	// the PV on every single cycle is expensive, so this defaults to a
	// coarser sampling interval.
	NCycles int64
}

// NewStatsListener returns a listener sampling OnCycle every nCycles cycles.
func NewStatsListener[M Move](nCycles int64) *StatsListener[M] {
	if nCycles <= 0 {
		nCycles = 1000
	}
	return &StatsListener[M]{NCycles: nCycles}
}

// OnDepth attaches a callback fired whenever the observed max search depth
// increases.
func (l *StatsListener[M]) OnDepth(f ListenerFunc[M]) *StatsListener[M] {
	l.onDepth = f
	return l
}

// OnCycle attaches a callback fired every NCycles backpropagation cycles.
func (l *StatsListener[M]) OnCycle(f ListenerFunc[M]) *StatsListener[M] {
	l.onCycle = f
	return l
}

// OnStop attaches a callback fired exactly once, when the search ends.
func (l *StatsListener[M]) OnStop(f ListenerFunc[M]) *StatsListener[M] {
	l.onStop = f
	return l
}

func (l *StatsListener[M]) invoke(f ListenerFunc[M], stats ListenerTreeStats[M]) {
	if f != nil {
		f(stats)
	}
}
