package mcts

import "testing"

func TestLimiterStopsOnNodeLimit(t *testing.T) {
	l := NewLimiter(64)
	l.SetLimits(DefaultLimits().SetNodes(100))
	l.Reset()

	if !l.Ok(50, 0, 0) {
		t.Fatalf("expected the limiter to still be ok below its node limit")
	}
	if l.Ok(100, 0, 0) {
		t.Fatalf("expected the limiter to stop once the node limit is reached")
	}

	l.EvaluateStopReason(100, 0, 0)
	if l.StopReason()&StopNodes != StopNodes {
		t.Fatalf("expected StopReason to report StopNodes, got %v", l.StopReason())
	}
}

func TestLimiterNodeLimitIndependentOfByteSize(t *testing.T) {
	l := NewLimiter(64)
	l.SetLimits(DefaultLimits().SetNodes(1000).SetMbSize(1))
	l.Reset()

	// 1MB / 64 bytes-per-node = 16384 nodes of byte budget, well above the
	// 1000-node cap: the node limit should still bind first.
	if l.Ok(1000, 0, 0) {
		t.Fatalf("expected the explicit node limit to stop the search before the byte-size-derived cap")
	}
}
