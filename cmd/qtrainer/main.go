// qtrainer trains a tabular Q-learning player and saves its table, to be used later with the
// "q,table=<path>" player configuration.
//
//	$ go run ./cmd/qtrainer -episodes=200000 -output=q.bin
//	$ go run ./cmd/qtrainer -opponent=random -load -output=q.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/janpfeifer/gametree/internal/players"
	_ "github.com/janpfeifer/gametree/internal/players/default"
	"github.com/janpfeifer/gametree/internal/profilers"
	"github.com/janpfeifer/gametree/internal/qlearning"
	"github.com/janpfeifer/gametree/internal/searchers"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagEpisodes = flag.Int("episodes", qlearning.DefaultEpisodes, "Number of training episodes (matches).")
	flagOpponent = flag.String("opponent", "", "AI configuration of the opponent during training (see players.New). "+
		"If empty the learner trains against another learner.")
	flagOutput = flag.String("output", "", "Path where to save the Q-table. Required.")
	flagLoad   = flag.Bool("load", false, "Continue training from the table in -output, if it exists.")
	flagSeed   = flag.Uint64("seed", 0, "Random seed. If 0, a random seed is used.")

	flagLearningRate = flag.Float64("lr", qlearning.DefaultLearningRate, "Learning rate (alpha).")
	flagDiscount     = flag.Float64("discount", qlearning.DefaultDiscount, "Discount factor (gamma) of future rewards.")
	flagEpsilon      = flag.Float64("epsilon", qlearning.DefaultEpsilon, "Probability of exploring a random action during training.")
	flagQuiet        = flag.Bool("quiet", false, "Don't display the progress bar.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagOutput == "" {
		klog.Fatal("Please set -output with the path where to save the Q-table.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	profilers.Setup(ctx)
	defer profilers.OnQuit()

	learner := must.M1(createLearner())
	opponent := must.M1(createOpponent())
	var progressOut io.Writer
	if !*flagQuiet {
		progressOut = os.Stderr
	}
	must.M(learner.Train(*flagEpisodes, opponent, progressOut))
	must.M(learner.SaveToFile(*flagOutput))
	fmt.Printf("Q-table with %d positions saved to %q\n", len(learner.Q), *flagOutput)
}

// createLearner with the hyperparameters given by the flags, optionally loading the previous table.
func createLearner() (*qlearning.Learner, error) {
	learner := qlearning.New(*flagSeed)
	learner.LearningRate = *flagLearningRate
	learner.Discount = *flagDiscount
	learner.Epsilon = *flagEpsilon
	if learner.LearningRate <= 0 || learner.LearningRate > 1 {
		return nil, errors.Errorf("invalid -lr=%g, it must be in (0, 1]", learner.LearningRate)
	}
	if learner.Discount < 0 || learner.Discount > 1 {
		return nil, errors.Errorf("invalid -discount=%g, it must be in [0, 1]", learner.Discount)
	}
	if learner.Epsilon < 0 || learner.Epsilon > 1 {
		return nil, errors.Errorf("invalid -epsilon=%g, it must be in [0, 1]", learner.Epsilon)
	}
	if !*flagLoad {
		return learner, nil
	}
	if _, err := os.Stat(*flagOutput); err != nil {
		if os.IsNotExist(err) {
			klog.Infof("No previous Q-table in %q, starting from scratch", *flagOutput)
			return learner, nil
		}
		return nil, errors.Wrapf(err, "failed to access %q", *flagOutput)
	}
	if err := learner.LoadFromFile(*flagOutput); err != nil {
		return nil, err
	}
	klog.Infof("Loaded Q-table with %d positions from %q", len(learner.Q), *flagOutput)
	return learner, nil
}

// createOpponent returns the searcher configured by -opponent, or nil for self-play.
func createOpponent() (searchers.Searcher[Action, *Board], error) {
	if *flagOpponent == "" {
		return nil, nil
	}
	p, err := players.New(*flagOpponent)
	if err != nil {
		return nil, errors.WithMessage(err, "-opponent")
	}
	return p.Searcher, nil
}
