package match

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/players"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Results of a series of matches between two AIs, AI-1 and AI-2. They alternate playing first:
// AI-1 plays first in the even matches.
type Results struct {
	mu    sync.Mutex
	start time.Time

	// WinsAs1st and WinsAs2nd are indexed by the AI.
	WinsAs1st, WinsAs2nd [2]int

	// Draws are indexed by the AI that played first.
	Draws [2]int

	Played, Total int
}

// NewResults creates an empty tally for total matches.
func NewResults(total int) *Results {
	return &Results{start: time.Now(), Total: total}
}

// IsSwapped returns whether AI-2 plays first in the given match.
func IsSwapped(matchIdx int) bool {
	return matchIdx%2 == 1
}

// AIOutcome of a match, from the point of view of the AIs.
type AIOutcome int

const (
	AI1Wins AIOutcome = iota
	AI2Wins
	Draw
)

// Outcome converts the winner of the given match to the AI that won.
func Outcome(matchIdx int, winner PlayerNum) AIOutcome {
	if winner == PlayerInvalid {
		return Draw
	}
	aiIdx := int(winner)
	if IsSwapped(matchIdx) {
		aiIdx = 1 - aiIdx
	}
	return AIOutcome(aiIdx)
}

// Record the winner of the given match.
func (r *Results) Record(matchIdx int, winner PlayerNum) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Played++
	aiFirst := 0
	if IsSwapped(matchIdx) {
		aiFirst = 1
	}
	switch outcome := Outcome(matchIdx, winner); outcome {
	case Draw:
		r.Draws[aiFirst]++
	default:
		aiIdx := int(outcome)
		if aiIdx == aiFirst {
			r.WinsAs1st[aiIdx]++
		} else {
			r.WinsAs2nd[aiIdx]++
		}
	}
}

// Wins of the given AI (0 or 1), playing either side.
func (r *Results) Wins(aiIdx int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.WinsAs1st[aiIdx] + r.WinsAs2nd[aiIdx]
}

// TotalDraws returns the number of draws, regardless of who played first.
func (r *Results) TotalDraws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Draws[0] + r.Draws[1]
}

// String returns a one line summary of the results.
func (r *Results) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.Played, r.Total))
	for aiIdx := range 2 {
		parts = append(parts,
			fmt.Sprintf("AI-%d: %d Wins (1st: %d, 2nd: %d) / ",
				aiIdx+1, r.WinsAs1st[aiIdx]+r.WinsAs2nd[aiIdx],
				r.WinsAs1st[aiIdx], r.WinsAs2nd[aiIdx]))
	}
	parts = append(parts, fmt.Sprintf("%d draws (%d AI-1 as 1st, %d AI-2 as 1st) - ",
		r.Draws[0]+r.Draws[1], r.Draws[0], r.Draws[1]))
	parts = append(parts, time.Since(r.start).Round(time.Millisecond).String())
	return strings.Join(parts, "")
}

// MatchConfig returns the AI configuration used in the given match of a series: a non-zero
// "seed" is offset by the match index, otherwise every match with the same first player would
// replay the same game. Configurations without a seed are returned unchanged.
func MatchConfig(config string, matchIdx int) (string, error) {
	params := parameters.NewFromConfigString(config)
	seed, err := parameters.GetParamOr(params, "seed", uint64(0))
	if err != nil {
		return "", errors.WithMessagef(err, "AI configuration %q", config)
	}
	if seed == 0 {
		return config, nil
	}
	params["seed"] = strconv.FormatUint(seed+uint64(matchIdx), 10)
	return params.String(), nil
}

// RunSeries plays numMatches between the AIs configured by configs (see players.New), with up
// to parallelism matches played concurrently. If parallelism <= 0, runtime.GOMAXPROCS(0) is used.
//
// Players are created anew for each match, since searchers are not safe for concurrent use.
// A non-zero "seed" in a configuration is offset by the match index, see MatchConfig.
// The AIs alternate playing first. If onResult is not nil, it is called (serialized) after each
// finished match, with its index.
//
// If ctx is cancelled, it returns the partial results and no error.
func RunSeries(ctx context.Context, configs [2]string, numMatches, parallelism int,
	onResult func(matchIdx int, m *Match, r *Results)) (*Results, error) {
	// Validate the configurations upfront.
	for aiIdx, config := range configs {
		if _, err := players.New(config); err != nil {
			return nil, errors.WithMessagef(err, "AI-%d", aiIdx+1)
		}
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	r := NewResults(numMatches)
	var muResult sync.Mutex
	var g errgroup.Group
	g.SetLimit(parallelism)
	for matchIdx := range numMatches {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			var matchPlayers [2]players.Player
			for aiIdx, config := range configs {
				config, err := MatchConfig(config, matchIdx)
				if err != nil {
					return err
				}
				p, err := players.New(config)
				if err != nil {
					return err
				}
				matchPlayers[aiIdx] = p
			}
			if IsSwapped(matchIdx) {
				matchPlayers[0], matchPlayers[1] = matchPlayers[1], matchPlayers[0]
			}
			defer func() {
				for _, p := range matchPlayers {
					p.Finalize()
				}
			}()
			m, err := Run(ctx, matchIdx, matchPlayers, nil)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			r.Record(matchIdx, m.Winner())
			if onResult != nil {
				muResult.Lock()
				onResult(matchIdx, m, r)
				muResult.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	if ctx.Err() != nil {
		klog.Infof("Matches interrupted: %s", ctx.Err())
		return r, nil
	}
	return r, err
}
