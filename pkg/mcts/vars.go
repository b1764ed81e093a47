package mcts

import "time"

// VirtualLoss is the penalty applied to an edge's visit/virtual-loss counters
// while a thread is descending through it, so other threads are steered away
// from the same line until the result backpropagates. See search.go.
var VirtualLoss int32 = 2

// ExplorationParam is the default PUCT/UCB1 exploration constant. Higher
// values favor exploration over exploitation; tune per domain.
var ExplorationParam float64 = 1.4

// SetExplorationParam updates the package-level default exploration constant.
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

// SeedGeneratorFn produces a random seed. The package stores one (see
// SetSeedGeneratorFn) but no search code reads it: workers have no random
// source and selection is deterministic.
type SeedGeneratorFn func() int64

var seedGenerator SeedGeneratorFn = func() int64 {
	return time.Now().UnixNano()
}

// SetSeedGeneratorFn overrides the default time-based seed generator.
func SetSeedGeneratorFn(f SeedGeneratorFn) {
	if f != nil {
		seedGenerator = f
	}
}
