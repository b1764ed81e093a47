package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Limits bounds a search along any combination of depth, node count, byte
// size, wall-clock time, and backpropagation cycles. Zero or more may be
// set; Infinite stays true until SetDepth, SetNodes, SetCycles, SetMovetime
// or SetByteSize (or SetInfinite(false)) clears it.
//
// Grounded on the teacher's Limits/limiter.go, kept close to verbatim: the
// bitmask stop-reason design generalizes cleanly to any domain.
type Limits struct {
	Depth    int
	Nodes    uint32
	Cycles   uint32
	Movetime int
	Infinite bool
	NThreads int
	ByteSize int64
	MultiPv  int
}

func (l Limits) String() string {
	var b strings.Builder
	_ = json.NewEncoder(&b).Encode(l)
	return b.String()
}

const (
	DefaultDepthLimit    int    = math.MaxInt
	DefaultNodeLimit     uint32 = math.MaxInt32*2 + 1
	DefaultMovetimeLimit int    = -1
	DefaultByteSizeLimit int64  = -1
	DefaultCyclesLimit   uint32 = math.MaxInt32*2 + 1
)

// DefaultLimits returns an unbounded (Infinite) Limits value.
func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		Nodes:    DefaultNodeLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
		NThreads: 1,
		ByteSize: DefaultByteSizeLimit,
		MultiPv:  1,
	}
}

func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	l.Infinite = false
	return l
}

func (l *Limits) SetNodes(nodes uint32) *Limits {
	l.Nodes = nodes
	l.Infinite = false
	return l
}

func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

func (l *Limits) SetInfinite(infinite bool) *Limits {
	l.Infinite = infinite
	return l
}

func (l *Limits) SetThreads(threads int) *Limits {
	l.NThreads = max(threads, 1)
	return l
}

func (l *Limits) SetMultiPv(multipv int) *Limits {
	l.MultiPv = max(1, multipv)
	return l
}

func (l *Limits) SetMbSize(mbsize int) *Limits {
	return l.SetByteSize(int64(mbsize) * (1 << 20))
}

func (l *Limits) SetByteSize(bytesize int64) *Limits {
	l.ByteSize = bytesize
	l.Infinite = false
	return l
}

func (l *Limits) InfiniteSize() bool {
	return l.ByteSize == DefaultByteSizeLimit
}
