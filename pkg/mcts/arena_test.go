package mcts

import "testing"

func TestAllocatorReturnsDistinctNodes(t *testing.T) {
	arena := NewArena[int, int, struct{}](4)
	al := arena.NewAllocator()

	seen := make(map[*Node[int, int, struct{}]]bool)
	for i := 0; i < 10; i++ {
		n := al.Alloc()
		if seen[n] {
			t.Fatalf("Alloc returned the same pointer twice")
		}
		seen[n] = true
	}
}

func TestAllocatorRollsOverToNewSlab(t *testing.T) {
	arena := NewArena[int, int, struct{}](2)
	al := arena.NewAllocator()

	al.Alloc()
	al.Alloc()
	// This third allocation must trigger a new slab.
	al.Alloc()

	if got := arena.Size(); got != 4 {
		t.Fatalf("expected arena to have grown to 4 nodes across 2 slabs, got %d", got)
	}
}

func TestMultipleAllocatorsShareTheArena(t *testing.T) {
	arena := NewArena[int, int, struct{}](8)
	a1 := arena.NewAllocator()
	a2 := arena.NewAllocator()

	n1 := a1.Alloc()
	n2 := a2.Alloc()
	if n1 == n2 {
		t.Fatalf("two allocators should never hand out the same node")
	}
}
