// Package winsma implements a moving average of the AIs' wins and draws.
//
// Since matches are played in parallel and end asynchronously, the results are re-ordered by
// match index before being combined.
package winsma

import (
	"github.com/janpfeifer/gametree/internal/generics"
	"github.com/janpfeifer/gametree/internal/match"
)

// MaxMovingAverageWeight is the maximum weight the moving average carries from past results.
const MaxMovingAverageWeight = 0.99

// Stats is a moving average of each match.AIOutcome (AI-1 wins, AI-2 wins and draws).
// Its values sum up to 1.0.
type Stats [3]float64

// CombineResult updates the moving average with the count-th result (starting at 1).
func (s *Stats) CombineResult(outcome match.AIOutcome, count int) {
	weight := min(1.0-1.0/float64(count), MaxMovingAverageWeight)
	for ii := range s {
		s[ii] *= weight
		if match.AIOutcome(ii) == outcome {
			s[ii] += 1.0 - weight
		}
	}
}

// MatchResult includes the match index and its outcome. A negative Index resets the moving
// average.
type MatchResult struct {
	Index   int
	Outcome match.AIOutcome
}

// WinsMovingAverage will read individual match results and output the current moving average.
//
// It will hold on to the results that come out-of-order, reporting only when the results in the
// correct order are available. A result with an index lower than the next expected one flushes
// the pending results and starts a new sequence.
//
// It will close statsChan and return when matchResults is closed.
func WinsMovingAverage(matchResults <-chan MatchResult, statsChan chan<- Stats) {
	next := 0
	var stats Stats
	pending := make(map[int]match.AIOutcome)
	for mr := range matchResults {
		if mr.Index < next {
			// Start a new sequence.
			flushPending(stats, pending, next, statsChan)
			next = 0
			stats = Stats{}
			pending = make(map[int]match.AIOutcome)
			if mr.Index < 0 {
				continue
			}
		}

		if mr.Index > next {
			// Store result for future use.
			pending[mr.Index] = mr.Outcome
			continue
		}

		// Result in order, combine it, and then any pending results that follow.
		next++
		stats.CombineResult(mr.Outcome, next)
		statsChan <- stats
		for {
			outcome, found := pending[next]
			if !found {
				break
			}
			delete(pending, next)
			next++
			stats.CombineResult(outcome, next)
			statsChan <- stats
		}
	}
	flushPending(stats, pending, next, statsChan)
	close(statsChan)
}

// flushPending combines the pending results in order, ignoring the gaps.
func flushPending(stats Stats, pending map[int]match.AIOutcome, next int, statsChan chan<- Stats) {
	for _, outcome := range generics.SortedKeysAndValues(pending) {
		next++
		stats.CombineResult(outcome, next)
		statsChan <- stats
	}
}
