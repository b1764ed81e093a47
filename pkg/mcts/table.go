package mcts

import "sync/atomic"

// tableEntry pairs a node with the hash it was installed under, so a bucket
// can detect a collision against a different position without walking a
// chain. Immutable once stored: a colliding hash replaces the whole entry
// rather than mutating it in place.
type tableEntry[M Move, E any, D any] struct {
	hash uint64
	node *Node[M, E, D]
}

// Table is an approximate, concurrent transposition table: a fixed,
// power-of-two array of buckets, each a CAS-guarded pointer to at most one
// entry. On collision the existing entry is silently evicted (lossy) rather
// than chained or resized, trading perfect recall for lock-free inserts and
// bounded memory.
//
// Grounded on zurichess's HashTable (power-of-two sizing, lossy overwrite on
// collision), converted from a single mutex/plain-array design into one
// atomic.Pointer per bucket so many search threads can probe and install
// concurrently without a table-wide lock.
type Table[M Move, E any, D any] struct {
	mask    uint64
	buckets []atomic.Pointer[tableEntry[M, E, D]]
}

// NewTable builds a table with 2^sizeLog2 buckets.
func NewTable[M Move, E any, D any](sizeLog2 uint) *Table[M, E, D] {
	if sizeLog2 == 0 {
		sizeLog2 = 20 // 1Mi buckets by default
	}
	n := uint64(1) << sizeLog2
	return &Table[M, E, D]{
		mask:    n - 1,
		buckets: make([]atomic.Pointer[tableEntry[M, E, D]], n),
	}
}

func (t *Table[M, E, D]) index(hash uint64) uint64 {
	return hash & t.mask
}

// Get returns the node stored for hash, if any and if it wasn't since
// evicted by a colliding insert.
func (t *Table[M, E, D]) Get(hash uint64) (*Node[M, E, D], bool) {
	e := t.buckets[t.index(hash)].Load()
	if e != nil && e.hash == hash {
		return e.node, true
	}
	return nil, false
}

// InsertOrGet installs node under hash unless a node is already installed
// there (same hash), in which case the existing node is returned instead and
// node is discarded. A bucket occupied by a different, colliding hash is
// overwritten. The return value is always the node callers should use going
// forward, whether or not it's the one they passed in.
func (t *Table[M, E, D]) InsertOrGet(hash uint64, node *Node[M, E, D]) *Node[M, E, D] {
	bucket := &t.buckets[t.index(hash)]
	entry := &tableEntry[M, E, D]{hash: hash, node: node}
	for {
		cur := bucket.Load()
		if cur != nil && cur.hash == hash {
			return cur.node
		}
		if bucket.CompareAndSwap(cur, entry) {
			return node
		}
		// Another thread raced us (either installing or evicting); retry.
	}
}

// Len returns the bucket count (not the number of occupied buckets).
func (t *Table[M, E, D]) Len() int {
	return len(t.buckets)
}
