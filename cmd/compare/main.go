// compare plays a series of matches between two AIs, alternating who plays first, and reports
// the wins and draws of each. Optionally, it plots the moving average of the results.
//
//	$ go run ./cmd/compare -ai1=mcts,simulations=2000 -ai2=ab -num_matches=200 -plot=compare.html
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/janpfeifer/gametree/internal/match"
	_ "github.com/janpfeifer/gametree/internal/players/default"
	"github.com/janpfeifer/gametree/internal/plot"
	"github.com/janpfeifer/gametree/internal/profilers"
	"github.com/janpfeifer/gametree/internal/ui/spinning"
	"github.com/janpfeifer/gametree/internal/winsma"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagPlayer1Config = flag.String("ai1", "", "1st player configuration. A non-zero seed=N is "+
		"offset by the match index, so each match plays differently.")
	flagPlayer2Config = flag.String("ai2", "", "2nd player configuration, see -ai1.")
	flagNumMatches    = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism   = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagPrintMatches = flag.Bool("print_matches", false, "Print the summary of each match as it finishes.")
	flagPlot         = flag.String("plot", "", "If set, saves an HTML plot of the moving average of "+
		"the wins and draws to the given path.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *flagPlayer1Config == "" || *flagPlayer2Config == "" {
		klog.Fatal("You must configure both players to compare with flags -ai1 and -ai2")
	}
	if *flagNumMatches <= 0 {
		klog.Fatalf("Invalid -num_matches=%d", *flagNumMatches)
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	configs := [2]string{*flagPlayer1Config, *flagPlayer2Config}
	stats := must.M1(runMatches(globalCtx, configs))
	if *flagPlot != "" && len(stats) > 0 {
		title := fmt.Sprintf("%s vs %s", configs[0], configs[1])
		must.M(plot.WinRatesToFile(*flagPlot, title, configs, stats))
		fmt.Printf("Plot saved to %q\n", *flagPlot)
	}
}

// runMatches plays the series, printing the results as they come, and returns the moving
// average of the results, in match order.
func runMatches(ctx context.Context, configs [2]string) ([]winsma.Stats, error) {
	matchResults := make(chan winsma.MatchResult, *flagNumMatches)
	statsChan := make(chan winsma.Stats, *flagNumMatches)
	go winsma.WinsMovingAverage(matchResults, statsChan)

	var allStats []winsma.Stats
	collected := make(chan struct{})
	go func() {
		for stats := range statsChan {
			allStats = append(allStats, stats)
		}
		close(collected)
	}()

	fmt.Printf("AI-1: %s\nAI-2: %s\n", configs[0], configs[1])
	r, err := match.RunSeries(ctx, configs, *flagNumMatches, *flagParallelism,
		func(matchIdx int, m *match.Match, r *match.Results) {
			matchResults <- winsma.MatchResult{Index: matchIdx, Outcome: match.Outcome(matchIdx, m.Winner())}
			if *flagPrintMatches {
				fmt.Printf("\r%s\033[0K\n", m)
			}
			fmt.Printf("\r%s\033[0K", r)
		})
	close(matchResults)
	<-collected
	fmt.Println()
	if err != nil {
		return nil, errors.WithMessage(err, "while running matches")
	}
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
	}
	fmt.Printf("Final: %s\n", r)
	return allStats, nil
}
