package mcts

import "testing"

func TestEdgeVirtualLossConservation(t *testing.T) {
	var e Edge[int, int, struct{}]

	// Descent applies +VirtualLoss to both counters.
	e.AddVvl(VirtualLoss, VirtualLoss)
	visits, vl := e.GetVvl()
	if visits != VirtualLoss || vl != VirtualLoss {
		t.Fatalf("after descent: visits=%d vl=%d, want both %d", visits, vl, VirtualLoss)
	}

	// Backprop reverts it exactly, netting +1 visit and 0 virtual loss.
	e.AddVvl(1-VirtualLoss, -VirtualLoss)
	visits, vl = e.GetVvl()
	if visits != 1 || vl != 0 {
		t.Fatalf("after backprop revert: visits=%d vl=%d, want 1 and 0", visits, vl)
	}
}

func TestEdgeMeanRewardIgnoresVirtualLoss(t *testing.T) {
	var e Edge[int, int, struct{}]
	e.AddVvl(1, 0)
	e.AddReward(1.0)

	// Apply virtual loss from a concurrent in-flight descent; it must not
	// affect the recorded mean reward.
	e.AddVvl(VirtualLoss, VirtualLoss)

	if mean := e.MeanReward(); mean != 1.0 {
		t.Fatalf("expected mean reward to stay 1.0 despite outstanding virtual loss, got %v", mean)
	}
}

func TestEdgeSetVvlPanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected SetVvl to panic when virtualLoss > visits")
		}
	}()

	var e Edge[int, int, struct{}]
	e.SetVvl(1, 2)
}
