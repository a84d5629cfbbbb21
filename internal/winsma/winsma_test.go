package winsma

import (
	"testing"

	"github.com/janpfeifer/gametree/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect runs WinsMovingAverage over the given results.
func collect(results ...MatchResult) []Stats {
	resultsChan := make(chan MatchResult)
	statsChan := make(chan Stats)
	go WinsMovingAverage(resultsChan, statsChan)
	go func() {
		for _, r := range results {
			resultsChan <- r
		}
		close(resultsChan)
	}()
	var all []Stats
	for s := range statsChan {
		all = append(all, s)
	}
	return all
}

func TestCombineResult(t *testing.T) {
	var s Stats
	s.CombineResult(match.AI1Wins, 1)
	assert.Equal(t, Stats{1, 0, 0}, s)
	s.CombineResult(match.Draw, 2)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0.5}, s[:], 1e-9)
	s.CombineResult(match.AI2Wins, 3)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, s[:], 1e-9)

	// The weight of the past is capped.
	s = Stats{1, 0, 0}
	s.CombineResult(match.AI2Wins, 1000)
	assert.InDeltaSlice(t, []float64{MaxMovingAverageWeight, 1 - MaxMovingAverageWeight, 0}, s[:], 1e-9)
}

func TestWinsMovingAverageReorders(t *testing.T) {
	inOrder := collect(
		MatchResult{0, match.AI1Wins},
		MatchResult{1, match.AI2Wins},
		MatchResult{2, match.Draw},
	)
	outOfOrder := collect(
		MatchResult{2, match.Draw},
		MatchResult{0, match.AI1Wins},
		MatchResult{1, match.AI2Wins},
	)
	require.Len(t, inOrder, 3)
	assert.Equal(t, inOrder, outOfOrder)
	for _, s := range inOrder {
		assert.InDelta(t, 1.0, s[0]+s[1]+s[2], 1e-9)
	}
}

func TestWinsMovingAverageFlushesGaps(t *testing.T) {
	// Match 1 never arrives: match 2 is still reported when the input is closed.
	all := collect(
		MatchResult{0, match.AI1Wins},
		MatchResult{2, match.AI2Wins},
	)
	require.Len(t, all, 2)
	assert.Equal(t, Stats{1, 0, 0}, all[0])
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0}, all[1][:], 1e-9)
}

func TestWinsMovingAverageReset(t *testing.T) {
	all := collect(
		MatchResult{0, match.AI1Wins},
		MatchResult{1, match.AI1Wins},
		MatchResult{-1, match.Draw},
		MatchResult{0, match.AI2Wins},
	)
	require.Len(t, all, 3)
	assert.Equal(t, Stats{0, 1, 0}, all[2])
}
