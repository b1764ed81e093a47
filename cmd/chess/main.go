// Command chess searches a FEN position with the reference chess Evaluator
// and reports the best move found, the way a UCI engine's "go" command
// would. Grounded on IlikeChooros-go-mcts/examples/chess/main.go's
// listener-based output loop.
package main

import (
	"context"
	"flag"
	"fmt"

	notnilchess "github.com/notnil/chess"
	"k8s.io/klog/v2"

	chessmcts "github.com/arcbrook/mcts-chess/internal/chess"
	"github.com/arcbrook/mcts-chess/pkg/mcts"
)

func main() {
	klog.InitFlags(nil)
	fen := flag.String("fen", notnilchess.NewGame().FEN(), "FEN of the position to search")
	movetime := flag.Int("movetime", 2000, "search time in milliseconds")
	threads := flag.Int("threads", 4, "number of search threads")
	flag.Parse()
	defer klog.Flush()

	state, err := chessmcts.NewFromFEN(*fen)
	if err != nil {
		klog.Fatalf("invalid FEN %q: %v", *fen, err)
	}

	evaluator := chessmcts.NewEvaluator()
	policy := mcts.NewPUCT[chessmcts.Move, int64, struct{}](1.5)
	manager := mcts.NewManager[chessmcts.Move, notnilchess.Color, int64, struct{}](
		chessmcts.NewPosition(state), evaluator, policy, 128)
	manager.Limiter.Limits().SetMovetime(*movetime).SetThreads(*threads)

	manager.Listener.OnStop(func(stats mcts.ListenerTreeStats[chessmcts.Move]) {
		klog.Infof("stopped: %s depth=%d nodes=%d nps=%s",
			stats.StopReason, stats.MaxDepth, manager.NumNodes(), mcts.FormatNps(stats.Nps))
	})

	manager.PlayoutUntil(context.Background())

	best, ok := manager.BestMove(mcts.BestChildMostVisits)
	if !ok {
		klog.Fatal("search produced no root moves; is the position terminal?")
	}

	fmt.Println("bestmove", best)
	fmt.Print(manager.DebugMoves())
	fmt.Println(manager.Diagnose())
}
