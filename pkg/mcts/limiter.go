package mcts

import (
	"context"
	"math"
	"sync/atomic"
)

// StopReason records why a search stopped, as a bitmask so multiple
// simultaneous reasons (e.g. interrupted right as the movetime elapsed) can
// both be reported.
type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1
	StopMovetime  StopReason = 2
	StopMemory    StopReason = 4
	StopDepth     StopReason = 8
	StopCycles    StopReason = 16
	StopNodes     StopReason = 32
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}
	names := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopMemory, "Memory"},
		{StopDepth, "Depth"},
		{StopCycles, "Cycles"},
		{StopNodes, "Nodes"},
	}
	result := ""
	for _, n := range names {
		if sr&n.flag == n.flag {
			if result != "" {
				result += "|"
			}
			result += n.name
		}
	}
	return result
}

const (
	stopMask   = int(StopInterrupt)
	timeMask   = int(StopMovetime)
	memoryMask = int(StopMemory)
	depthMask  = int(StopDepth)
	cyclesMask = int(StopCycles)
	nodesMask  = int(StopNodes)
)

// Limiter evaluates a Limits value against live search counters and decides
// when to stop, matching the teacher's Limiter (pkg/mcts/limiter.go)
// almost verbatim: the stop-reason bitmask generalizes cleanly to any
// domain. When a memory limit is combined with a time or cycle limit,
// exhausting memory clears the Expand flag instead of stopping the search;
// the search loop does not read that flag, so nodes are still created until
// the other limit stops the search.
type Limiter struct {
	limits     *Limits
	timer      *internalTimer
	nodeSize   uint32
	maxSize    uint32
	expand     atomic.Bool
	stop       atomic.Bool
	areSetMask int
	reason     StopReason
	ctx        context.Context
}

// NewLimiter builds a limiter that converts a byte-size budget into a node
// budget using nodeSize (the approximate size, in bytes, of one Node[...]).
func NewLimiter(nodeSize uint32) *Limiter {
	l := &Limiter{
		limits:   DefaultLimits(),
		timer:    newInternalTimer(),
		nodeSize: nodeSize,
		ctx:      context.Background(),
	}
	l.expand.Store(true)
	return l
}

// Reset re-arms the limiter for a new search: resets the timer, clears the
// stop flag, and recomputes the node budget derived from ByteSize.
func (l *Limiter) Reset() {
	l.timer.Movetime(l.limits.Movetime)
	l.timer.Reset()
	l.stop.Store(false)
	l.expand.Store(true)
	l.reason = StopNone

	if l.limits.ByteSize != DefaultByteSizeLimit {
		l.maxSize = uint32(l.limits.ByteSize) / l.nodeSize
	} else {
		l.maxSize = math.MaxUint32
	}

	l.areSetMask = boolMask(l.timer.IsSet(), 1) |
		boolMask(l.limits.ByteSize != DefaultByteSizeLimit, 2) |
		boolMask(l.limits.Depth != DefaultDepthLimit, 3) |
		boolMask(l.limits.Cycles != DefaultCyclesLimit, 4) |
		boolMask(l.limits.Nodes != DefaultNodeLimit, 5)
}

// EvaluateStopReason records, for later inspection via StopReason, every
// limit that was exceeded when search stopped. Call once, from the
// coordinating thread, after the search loop exits.
func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	mask := l.okMask(size, depth, cycles)
	reason := StopNone
	if mask&stopMask == stopMask {
		reason |= StopInterrupt
	}
	if mask&timeMask == timeMask {
		reason |= StopMovetime
	}
	if mask&memoryMask == memoryMask {
		reason |= StopMemory
	}
	if mask&depthMask == depthMask {
		reason |= StopDepth
	}
	if mask&cyclesMask == cyclesMask {
		reason |= StopCycles
	}
	if mask&nodesMask == nodesMask {
		reason |= StopNodes
	}
	l.reason = reason
}

func (l *Limiter) StopReason() StopReason { return l.reason }

func (l *Limiter) SetContext(ctx context.Context) { l.ctx = ctx }

func (l *Limiter) SetStop(v bool) { l.stop.Store(v) }

// Stop reports whether the search should halt: either SetStop(true) was
// called, or the bound context was cancelled.
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

func (l *Limiter) SetLimits(limits *Limits) { l.limits = limits }

func (l *Limiter) Limits() *Limits { return l.limits }

// Elapsed returns milliseconds since the last Reset.
func (l *Limiter) Elapsed() uint32 { return uint32(l.timer.Deltatime()) }

// Expand reports false once the memory budget is exhausted while another
// limit (time/cycles) is still active to eventually stop the search by
// itself. SearchTree and Manager do not consult it.
func (l *Limiter) Expand() bool { return l.expand.Load() }

func boolMask(val bool, offset int) int {
	if val {
		return 1 << offset
	}
	return 0
}

func (l *Limiter) limitMask(size, depth, cycles uint32) int {
	stop := l.Stop()
	if l.limits.Infinite {
		return boolMask(stop, 0)
	}

	mask := boolMask(stop, 0)
	mask |= boolMask(l.timer.IsEnd(), 1)
	mask |= boolMask(l.maxSize <= size, 2)
	mask |= boolMask(l.limits.Depth <= int(depth), 3)
	mask |= boolMask(l.limits.Cycles <= cycles, 4)
	mask |= boolMask(l.limits.Nodes <= size, 5)
	return mask
}

func (l *Limiter) okMask(size, depth, cycles uint32) int {
	mask := l.limitMask(size, depth, cycles)

	// If a memory limit is combined with a time/cycle limit, exhausting
	// memory alone doesn't stop the search: it clears the Expand flag and
	// leaves stopping to the other limit.
	if (l.areSetMask&memoryMask) == memoryMask && (l.areSetMask&(timeMask|cyclesMask)) != 0 {
		if mask&memoryMask == memoryMask {
			l.expand.Store(false)
			mask ^= memoryMask
		}
	}

	return mask
}

// Ok reports whether the search should keep running given the current
// node/depth/cycle counters.
func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.okMask(size, depth, cycles) == 0
}
