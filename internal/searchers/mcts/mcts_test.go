package mcts_test

import (
	"testing"

	"github.com/janpfeifer/gametree/internal/parameters"
	. "github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/searchers/mcts"
	. "github.com/janpfeifer/gametree/internal/state"
	. "github.com/janpfeifer/gametree/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMCTS(t *testing.T, config string) *mcts.Searcher[Action, *Board] {
	params := parameters.NewFromConfigString(config)
	searcher, err := mcts.NewFromParams[Action, *Board](params)
	require.NoError(t, err)
	require.NotNil(t, searcher)
	require.Empty(t, params, "unused parameters")
	return searcher
}

func TestNewFromParams(t *testing.T) {
	searcher, err := mcts.NewFromParams[Action, *Board](parameters.NewFromConfigString("ab,max_depth=2"))
	require.NoError(t, err)
	assert.Nil(t, searcher)

	for _, config := range []string{"mcts,simulations=0", "mcts,c=-1", "mcts,parallelism=0"} {
		_, err = mcts.NewFromParams[Action, *Board](parameters.NewFromConfigString(config))
		assert.Truef(t, errors.Is(err, ErrInvalidConfig), "config %q: got %v", config, err)
	}
	_, err = mcts.NewFromParams[Action, *Board](parameters.NewFromConfigString("mcts,simulations=many"))
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	b := BuildBoard(t, "XX_/OO_/___")
	_, _, err := mcts.New[Action, *Board]().SearchWithBudget(b, PlayerFirst, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	_, _, err = mcts.New[Action, *Board]().WithSimulations(-5).Search(b, PlayerFirst)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	_, _, err = mcts.New[Action, *Board]().WithExploration(-0.1).Search(b, PlayerFirst)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)

	// Configuration is checked before the position.
	finished := BuildBoard(t, "XXX/OO_/___")
	_, _, err = mcts.New[Action, *Board]().SearchWithBudget(finished, PlayerSecond, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	_, _, err = mcts.New[Action, *Board]().Search(finished, PlayerSecond)
	assert.True(t, errors.Is(err, ErrNoActions), "got %v", err)
}

func TestWinningMove(t *testing.T) {
	b := BuildBoard(t, "XX_/OO_/___")
	original := b.Clone()
	searcher := buildTestMCTS(t, "mcts,simulations=2000,seed=1")
	action, score, err := searcher.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
	assert.Greater(t, score, 0.9)
	assert.Equal(t, original, b, "Search must not change the board")

	stats := searcher.Stats()
	assert.Equal(t, 2000, stats.Simulations)
	assert.Greater(t, stats.TerminalLeaves, 0)
	assert.Greater(t, stats.Nodes, NumCells-4)
}

func TestBlockingMove(t *testing.T) {
	// O can't win immediately and must block the top row.
	b := BuildBoard(t, "XX_/_O_/___")
	action, _, err := buildTestMCTS(t, "mcts,simulations=5000,seed=3").Search(b, PlayerSecond)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
}

func TestSecondPlayerWins(t *testing.T) {
	b := BuildBoardWithNext(t, "XX_/OO_/___", PlayerSecond)
	action, score, err := buildTestMCTS(t, "mcts,simulations=2000,seed=5").Search(b, PlayerSecond)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 1, Col: 2}, action)
	assert.Greater(t, score, 0.9, "score is from the perspective of the player searching")
}

func TestReproducible(t *testing.T) {
	b := BuildBoard(t, "X__/_O_/___")
	a1, s1, err := buildTestMCTS(t, "mcts,simulations=500,seed=42").Search(b, PlayerFirst)
	require.NoError(t, err)
	for range 3 {
		a2, s2, err := buildTestMCTS(t, "mcts,simulations=500,seed=42").Search(b, PlayerFirst)
		require.NoError(t, err)
		assert.Equal(t, a1, a2)
		assert.Equal(t, s1, s2)
	}

	// The same searcher restarts its random number generator on each call.
	searcher := buildTestMCTS(t, "mcts,simulations=500,seed=42")
	a3, s3, err := searcher.Search(b, PlayerFirst)
	require.NoError(t, err)
	a4, s4, err := searcher.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, a3, a4)
	assert.Equal(t, s3, s4)
	assert.Equal(t, a1, a3)
}

func TestParallel(t *testing.T) {
	b := BuildBoard(t, "XX_/OO_/___")
	searcher := buildTestMCTS(t, "mcts,simulations=3000,parallelism=4,seed=9")
	action, _, err := searcher.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
	assert.Equal(t, 3000, searcher.Stats().Simulations)
}

func TestNeverLosesToRandom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full games in short mode")
	}
	for seed := uint64(1); seed <= 4; seed++ {
		searcher := mcts.New[Action, *Board]().WithSimulations(5000).WithSeed(seed)
		random := NewRandomSearcher[Action, *Board](seed)
		mctsPlayer := PlayerNum(seed % 2)
		b := NewBoard()
		for !b.IsFinished() {
			var action Action
			var err error
			if b.NextPlayer == mctsPlayer {
				action, _, err = searcher.Search(b, b.NextPlayer)
			} else {
				action, _, err = random.Search(b, b.NextPlayer)
			}
			require.NoError(t, err)
			require.NoError(t, b.Play(action))
		}
		assert.Falsef(t, b.Wins(mctsPlayer.Opponent()), "seed=%d, MCTS played %s and lost:\n%s", seed, mctsPlayer, b)
	}
}
