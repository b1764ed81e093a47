package mcts

// Move identifies a transition out of a GameState. Implementations are
// usually small value types (a packed int, a short string) so that Edge
// slices stay cache-friendly.
type Move comparable

// Player identifies whose turn it is to act in a GameState. Single-player
// domains (see cmd/counting) can use struct{} here.
type Player comparable

// Result is a player-perspective outcome in [0, 1], 0 meaning a loss and 1
// meaning a win for the player to move at the node it's recorded on.
type Result float64

// Scale is the fixed-point precision used when compounding Result values
// atomically (see Edge.AddReward). Matches the 10^-3 precision the teacher
// library uses for its own NodeStats.q accumulator.
const Scale = 1e3

// BestChildPolicy selects which child of a node the manager reports as the
// best move once search stops.
type BestChildPolicy int

const (
	// BestChildMostVisits picks the most-visited child, the standard choice.
	BestChildMostVisits BestChildPolicy = iota
	// BestChildHighestReward picks the child with the best mean reward.
	BestChildHighestReward
)

// MultithreadPolicy names ways of fanning work across threads. No Manager
// method takes or reads it: PlayoutNParallel always runs tree-parallel.
type MultithreadPolicy int

const (
	// MultithreadTreeParallel has every thread descend the same shared tree,
	// synchronized through atomics and the transposition table.
	MultithreadTreeParallel MultithreadPolicy = iota
	// MultithreadRootParallel names root-parallel search (a cloned root
	// subtree per thread, merged at the end); nothing in this package
	// implements it.
	MultithreadRootParallel
)
