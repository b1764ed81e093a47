package mcts

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// PreviousTable is the warm-start handoff a Manager exposes after a search,
// so the next search (typically one ply deeper into the game) can reuse
// already-evaluated subtrees instead of starting cold.
//
// Supplements the distilled spec with a feature present in the original
// Rust mcts crate (MCTSManager::new takes a prev_table, .table() hands one
// back out) that the teacher library has no equivalent of (it has no
// transposition table to hand back).
type PreviousTable[M Move, E any, D any] struct {
	table *Table[M, E, D]
}

// Manager drives playouts against one SearchTree: single-threaded
// (PlayoutN), tree-parallel (PlayoutNParallel), time-bounded
// (PlayoutUntil), or asynchronous (PlayoutParallelAsync).
//
// Grounded on the teacher's MCTS struct's manager-level API (pkg/mcts/mcts.go):
// BestChild, Pv and Reset have analogues here (BestMove, PrincipalVariation,
// Reset), generalized to the Evaluator-driven, transposition-table-backed
// SearchTree.
type Manager[M Move, P Player, E any, D any] struct {
	Tree     *SearchTree[M, P, E, D]
	Limiter  *Limiter
	Listener *StatsListener[M]

	evaluator Evaluator[M, P, E]
	cycles    atomic.Int64
	allocator func() *Allocator[M, E, D]
}

// NewManager builds a Manager around a fresh SearchTree. nodeSize
// approximates sizeof(Node[M,E,D]) for the Limiter's byte-size budget.
func NewManager[M Move, P Player, E any, D any](
	state GameState[M, P],
	evaluator Evaluator[M, P, E],
	policy TreePolicy[M, E, D],
	nodeSize uint32,
) *Manager[M, P, E, D] {
	return NewManagerWithTable(state, evaluator, policy, nodeSize, nil)
}

// NewManagerWithTable builds a Manager warm-started from a previous
// search's transposition table (pass nil for a cold start).
func NewManagerWithTable[M Move, P Player, E any, D any](
	state GameState[M, P],
	evaluator Evaluator[M, P, E],
	policy TreePolicy[M, E, D],
	nodeSize uint32,
	prev *PreviousTable[M, E, D],
) *Manager[M, P, E, D] {
	arena := NewArena[M, E, D](DefaultSlabSize)
	var table *Table[M, E, D]
	if prev != nil && prev.table != nil {
		table = prev.table
	} else {
		table = NewTable[M, E, D](20)
	}

	tree := NewSearchTree(state, evaluator, policy, arena, table)
	m := &Manager[M, P, E, D]{
		Tree:      tree,
		Limiter:   NewLimiter(nodeSize),
		Listener:  NewStatsListener[M](1000),
		evaluator: evaluator,
	}
	m.allocator = func() *Allocator[M, E, D] { return arena.NewAllocator() }
	return m
}

// Table returns a handle to this manager's transposition table, suitable
// for warm-starting the Manager built for the next ply.
func (m *Manager[M, P, E, D]) Table() *PreviousTable[M, E, D] {
	return &PreviousTable[M, E, D]{table: m.Tree.Table}
}

// Reset re-arms the limiter for a new search (new time/node/cycle budget);
// it does not discard the tree.
func (m *Manager[M, P, E, D]) Reset() {
	m.Limiter.Reset()
	m.cycles.Store(0)
	m.Tree.maxDepth.Store(0)
}

// PlayoutN runs exactly n playouts on the calling goroutine, ignoring the
// limiter's time/node/depth budget (but still honoring SetStop/context
// cancellation via Limiter.Stop).
func (m *Manager[M, P, E, D]) PlayoutN(n int) {
	al := m.allocator()
	for i := 0; i < n && !m.Limiter.Stop(); i++ {
		m.Tree.Playout(al)
		m.cycles.Add(1)
	}
}

// PlayoutNParallel runs n playouts total, fanned out across threads
// goroutines all descending the same shared tree (MultithreadTreeParallel).
func (m *Manager[M, P, E, D]) PlayoutNParallel(n, threads int) {
	threads = max(1, threads)
	m.Reset()

	var wg sync.WaitGroup
	share := n / threads
	remainder := n % threads
	for id := 0; id < threads; id++ {
		count := share
		if id < remainder {
			count++
		}
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			al := m.allocator()
			for i := 0; i < count && !m.Limiter.Stop(); i++ {
				m.Tree.Playout(al)
				m.cycles.Add(1)
			}
		}(count)
	}
	wg.Wait()
	m.Limiter.EvaluateStopReason(uint32(m.Tree.Size()), uint32(m.Tree.MaxDepth()), uint32(m.cycles.Load()))
	m.Listener.invoke(m.Listener.onStop, m.snapshot())
}

// PlayoutUntil runs playouts across limits.NThreads goroutines until the
// Limiter's depth/node/time/cycle budget is exhausted or ctx is cancelled.
// The StatsListener's OnCycle/OnStop hooks fire from the coordinating
// (thread 0) goroutine only.
//
// Grounded on the teacher's Search/SearchMultiThreaded coordination (wg,
// per-thread loop, thread 0 privileges for listener callbacks and final
// stop-reason evaluation).
func (m *Manager[M, P, E, D]) PlayoutUntil(ctx context.Context) {
	m.Limiter.SetContext(ctx)
	m.Reset()
	threads := max(1, m.Limiter.Limits().NThreads)

	var wg sync.WaitGroup
	for id := 0; id < threads; id++ {
		wg.Add(1)
		go m.searchLoop(&wg, id)
	}
	wg.Wait()
}

func (m *Manager[M, P, E, D]) searchLoop(wg *sync.WaitGroup, threadID int) {
	defer wg.Done()
	al := m.allocator()
	lastDepth := m.Tree.MaxDepth()

	for m.Limiter.Ok(uint32(m.Tree.Size()), uint32(m.Tree.MaxDepth()), uint32(m.cycles.Load())) {
		m.Tree.Playout(al)
		cycles := m.cycles.Add(1)

		if threadID == mainThreadID {
			if depth := m.Tree.MaxDepth(); depth > lastDepth {
				lastDepth = depth
				m.Listener.invoke(m.Listener.onDepth, m.snapshot())
			}
			if m.Listener.onCycle != nil && cycles%m.Listener.NCycles == 0 {
				m.Listener.invoke(m.Listener.onCycle, m.snapshot())
			}
		}
	}

	if threadID == mainThreadID {
		m.Limiter.EvaluateStopReason(uint32(m.Tree.Size()), uint32(m.Tree.MaxDepth()), uint32(m.cycles.Load()))
		m.Limiter.SetStop(true)
		m.Listener.invoke(m.Listener.onStop, m.snapshot())
	}
}

const mainThreadID = 0

// PlayoutParallelFor blocks the caller until a parallel search (threads
// goroutines, MultithreadTreeParallel) finishes under movetime milliseconds.
func (m *Manager[M, P, E, D]) PlayoutParallelFor(movetime int, threads int) {
	m.Limiter.Limits().SetMovetime(movetime).SetThreads(threads)
	m.PlayoutUntil(context.Background())
}

// AsyncSearch is a running background search. The caller MUST call Halt
// (typically via defer) once done with it: Go has no Drop, so unlike the
// original Rust mcts crate's AsyncSearch/AsyncSearchOwned (which stop their
// worker threads automatically when they go out of scope), nothing stops
// these goroutines until Halt is called.
type AsyncSearch[M Move, P Player, E any, D any] struct {
	manager *Manager[M, P, E, D]
	done    chan struct{}
	once    sync.Once
}

// Halt signals the search to stop and blocks until every worker goroutine
// has exited.
func (a *AsyncSearch[M, P, E, D]) Halt() {
	a.once.Do(func() {
		a.manager.Limiter.SetStop(true)
		<-a.done
	})
}

// Manager returns the underlying Manager, readable at any point (the
// atomics backing Tree/Limiter are safe to read concurrently with a running
// search).
func (a *AsyncSearch[M, P, E, D]) Manager() *Manager[M, P, E, D] {
	return a.manager
}

// PlayoutParallelAsync starts a search in the background across
// limits.NThreads goroutines and returns immediately with a handle; call
// Halt on it when done.
func (m *Manager[M, P, E, D]) PlayoutParallelAsync(ctx context.Context) *AsyncSearch[M, P, E, D] {
	m.Limiter.SetContext(ctx)
	m.Reset()
	threads := max(1, m.Limiter.Limits().NThreads)

	done := make(chan struct{})
	search := &AsyncSearch[M, P, E, D]{manager: m, done: done}

	go func() {
		var wg sync.WaitGroup
		for id := 0; id < threads; id++ {
			wg.Add(1)
			go m.searchLoop(&wg, id)
		}
		wg.Wait()
		close(done)
	}()

	return search
}

// rootBestChildMeanReward returns the mean reward of the root's best child
// by visit count, in the [0,1] Result domain, already expressed from the
// point of view of the player to move at the root. An empty or unexpanded
// root has no child to read, so it falls back to 0.5 (even).
func (m *Manager[M, P, E, D]) rootBestChildMeanReward() float64 {
	if !m.Tree.Root.Expanded() || len(m.Tree.Root.Edges) == 0 {
		return 0.5
	}
	idx := bestEdgeIndex(m.Tree.Root, BestChildMostVisits)
	return m.Tree.Root.Edges[idx].MeanReward()
}

// EvalInCP converts the root's best child's mean reward into an approximate
// centipawn score using 100*tan(1.5*x), x being the signed [-1,1] transform
// of the [0,1] Result domain rootBestChildMeanReward returns. The tangent
// only diverges at |x| = pi/3, outside [-1,1], so the output stays finite:
// it grows steeply as |x| nears 1 and reaches about +/-1410 at |x| = 1.
//
// Ported from the original Rust mcts crate's eval_in_cp.
func (m *Manager[M, P, E, D]) EvalInCP() int64 {
	signed := 2*m.rootBestChildMeanReward() - 1
	return int64(100.0 * math.Tan(1.5*signed))
}

// bestEdgeIndex returns the index into node.Edges chosen by policy.
func bestEdgeIndex[M Move, E any, D any](node *Node[M, E, D], policy BestChildPolicy) int {
	best := -1
	var bestScore float64 = -1
	for i := range node.Edges {
		e := &node.Edges[i]
		var score float64
		switch policy {
		case BestChildHighestReward:
			score = e.MeanReward()
		default: // BestChildMostVisits
			score = float64(e.RealVisits())
		}
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// BestMove returns the move the given policy currently favors at the root,
// and reports false if the root has no edges yet.
func (m *Manager[M, P, E, D]) BestMove(policy BestChildPolicy) (M, bool) {
	if !m.Tree.Root.Expanded() || len(m.Tree.Root.Edges) == 0 {
		var zero M
		return zero, false
	}
	idx := bestEdgeIndex(m.Tree.Root, policy)
	return m.Tree.Root.Edges[idx].Move, true
}

// PrincipalVariation walks the best-child chain from the root down to the
// first unexpanded or terminal node, returning the sequence of moves.
func (m *Manager[M, P, E, D]) PrincipalVariation(policy BestChildPolicy) []M {
	var line []M
	node := m.Tree.Root
	for node != nil && node.Expanded() && len(node.Edges) > 0 && !node.Terminal() {
		idx := bestEdgeIndex(node, policy)
		edge := &node.Edges[idx]
		line = append(line, edge.Move)
		node = edge.Child()
	}
	return line
}

// NumNodes returns the total node count installed in the tree.
func (m *Manager[M, P, E, D]) NumNodes() int64 {
	return m.Tree.Size()
}

// Cycles returns the number of completed backpropagation cycles.
func (m *Manager[M, P, E, D]) Cycles() int64 {
	return m.cycles.Load()
}

func (m *Manager[M, P, E, D]) snapshot() ListenerTreeStats[M] {
	move, _ := m.BestMove(BestChildMostVisits)
	pv := m.PrincipalVariation(BestChildMostVisits)
	var eval float64
	if len(m.Tree.Root.Edges) > 0 {
		eval = m.Tree.Root.Edges[bestEdgeIndex(m.Tree.Root, BestChildMostVisits)].MeanReward()
	}

	elapsed := m.Limiter.Elapsed()
	nps := uint64(m.cycles.Load()) * 1000 / uint64(max(elapsed, 1))

	return ListenerTreeStats[M]{
		MaxDepth: int(m.Tree.MaxDepth()),
		Cycles:   m.cycles.Load(),
		TimeMs:   elapsed,
		Nps:      nps,
		Lines: []SearchLine[M]{{
			BestMove: move,
			Moves:    pv,
			Eval:     eval,
			Terminal: m.Tree.Root.Terminal(),
		}},
		StopReason: m.Limiter.StopReason(),
	}
}

// SampleThroughput runs the search for the given number of sample intervals
// and reports nodes/sec at each boundary, the way the original Rust mcts
// crate's perf_test/perf_test_to_stderr do.
func (m *Manager[M, P, E, D]) SampleThroughput(ctx context.Context, threads, samples int, interval time.Duration) []uint64 {
	m.Limiter.Limits().SetThreads(threads).SetInfinite(true)
	search := m.PlayoutParallelAsync(ctx)
	defer search.Halt()

	rates := make([]uint64, 0, samples)
	var last int64
	for i := 0; i < samples; i++ {
		time.Sleep(interval)
		cur := m.Tree.Size()
		rates = append(rates, uint64(cur-last)*uint64(time.Second/interval))
		last = cur
	}
	return rates
}

// FormatNps renders a nodes/sec figure with thousands separators, the Go
// equivalent of the original Rust mcts crate's hand-rolled
// thousands_separate helper.
func FormatNps(nps uint64) string {
	return humanize.Comma(int64(nps))
}

// DebugMoves renders one line per root edge: move, prior, visits, mean
// reward — a readable dump for manual inspection or assertions in tests.
//
// Supplements the distilled spec with the display_moves/diagnose-style
// introspection the original Rust mcts crate's tests rely on
// (manager.tree().display_moves()).
func (m *Manager[M, P, E, D]) DebugMoves() string {
	var b strings.Builder
	for i := range m.Tree.Root.Edges {
		e := &m.Tree.Root.Edges[i]
		fmt.Fprintf(&b, "%v prior=%.4f visits=%d reward=%.4f\n", e.Move, e.Prior, e.RealVisits(), e.MeanReward())
	}
	return b.String()
}

// Diagnose reports tree-wide counters: node count, collisions, max depth,
// and the root's current eval in centipawns.
func (m *Manager[M, P, E, D]) Diagnose() string {
	return fmt.Sprintf("nodes=%d collisions=%d maxdepth=%d cycles=%d nps=%s cp=%d",
		m.Tree.Size(), m.Tree.Collisions(), m.Tree.MaxDepth(), m.cycles.Load(), FormatNps(uint64(m.cycles.Load())*1000/uint64(max(m.Limiter.Elapsed(), 1))), m.EvalInCP())
}
