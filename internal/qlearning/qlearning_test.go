package qlearning

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/searchers"
	. "github.com/janpfeifer/gametree/internal/state"
	. "github.com/janpfeifer/gametree/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndEpisode(t *testing.T) {
	l := New(1)
	l.history = []step{
		{key: "000000000", action: Action{Row: 1, Col: 1}},
		{key: "120010000", action: Action{Row: 2, Col: 2}},
	}
	l.EndEpisode(1)
	assert.Empty(t, l.history)

	// Last action: Q = 0 + 0.5 * (1 + 0.9*0 - 0).
	assert.InDelta(t, 0.5, l.Value("120010000", Action{Row: 2, Col: 2}), 1e-9)
	// First action, with the reward decayed once.
	assert.InDelta(t, 0.45, l.Value("000000000", Action{Row: 1, Col: 1}), 1e-9)
	assert.Equal(t, 0.0, l.Value("000000000", Action{Row: 0, Col: 0}))
	assert.Equal(t, 0.0, l.Value("unknown", Action{Row: 0, Col: 0}))

	// A second update on the same state uses its own values as the next state.
	l.history = []step{{key: "120010000", action: Action{Row: 2, Col: 2}}}
	l.EndEpisode(1)
	// 0.5 + 0.5*(1 + 0.9*0.5 - 0.5)
	assert.InDelta(t, 0.975, l.Value("120010000", Action{Row: 2, Col: 2}), 1e-9)
}

func TestChooseAction(t *testing.T) {
	l := New(3)
	b := BuildBoard(t, "XX_/OO_/___")
	key := b.Hash()
	l.Q[key] = &Values{}
	l.Q[key][Action{Row: 0, Col: 2}.Index()] = 0.8
	for range 20 {
		assert.Equal(t, Action{Row: 0, Col: 2}, l.ChooseAction(b, 0))
	}

	// Ties are broken randomly.
	l.Q[key][Action{Row: 2, Col: 0}.Index()] = 0.8
	chosen := make(map[Action]int)
	for range 200 {
		chosen[l.ChooseAction(b, 0)]++
	}
	assert.Len(t, chosen, 2)

	// Full exploration picks every legal action at some point.
	chosen = make(map[Action]int)
	for range 500 {
		chosen[l.ChooseAction(b, 1)]++
	}
	assert.Len(t, chosen, len(b.Actions()))
}

func TestSearch(t *testing.T) {
	l := New(5)
	_, _, err := l.Search(BuildBoard(t, "XXX/OO_/___"), PlayerSecond)
	assert.True(t, errors.Is(err, searchers.ErrNoActions))

	b := BuildBoard(t, "XX_/OO_/___")
	l.Q[b.Hash()] = &Values{}
	l.Q[b.Hash()][Action{Row: 0, Col: 2}.Index()] = 0.7
	action, score, err := l.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
	assert.Equal(t, 0.7, score)
}

// playMatches between the greedy learner and a random player, alternating sides.
func playMatches(t *testing.T, l *Learner, numMatches int) (wins, losses int) {
	random := searchers.NewRandomSearcher[Action, *Board](99)
	for match := range numMatches {
		learnerPlayer := PlayerNum(match % 2)
		b := NewBoard()
		for !b.IsFinished() {
			var action Action
			var err error
			if b.NextPlayer == learnerPlayer {
				action, _, err = l.Search(b, b.NextPlayer)
			} else {
				action, _, err = random.Search(b, b.NextPlayer)
			}
			require.NoError(t, err)
			b.Act(action, b.NextPlayer)
		}
		if b.Wins(learnerPlayer) {
			wins++
		} else if b.Wins(learnerPlayer.Opponent()) {
			losses++
		}
	}
	return
}

func TestTrain(t *testing.T) {
	l := New(7)
	require.Error(t, l.Train(0, nil, nil))

	// Self-play against another learner.
	require.NoError(t, l.Train(2000, nil, io.Discard))
	assert.NotEmpty(t, l.Q)

	// Against a random player.
	l = New(11)
	require.NoError(t, l.Train(20000, searchers.NewRandomSearcher[Action, *Board](13), nil))
	wins, losses := playMatches(t, l, 400)
	assert.Greater(t, wins, losses, "wins=%d, losses=%d", wins, losses)
}

func TestPersistence(t *testing.T) {
	l := New(1)
	l.history = []step{{key: "000000000", action: Action{Row: 0, Col: 0}}}
	l.EndEpisode(-1)
	l.Epsilon = 0.2

	var buf bytes.Buffer
	require.NoError(t, l.Save(&buf))
	l2 := New(2)
	require.NoError(t, l2.Load(&buf))
	assert.Equal(t, l.Q, l2.Q)
	assert.Equal(t, 0.2, l2.Epsilon)
	assert.Equal(t, DefaultDiscount, l2.Discount)

	// Through a file, and as a player.
	path := filepath.Join(t.TempDir(), "q.bin")
	require.NoError(t, l.SaveToFile(path))
	params := parameters.NewFromConfigString("q,table=" + path + ",seed=3")
	l3, err := NewFromParams(params)
	require.NoError(t, err)
	require.NotNil(t, l3)
	assert.Empty(t, params)
	assert.Equal(t, l.Q, l3.Q)
	assert.Equal(t, 0.0, l3.PlayEpsilon)

	_, err = NewFromParams(parameters.NewFromConfigString("q,table=" + filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
	l4, err := NewFromParams(parameters.NewFromConfigString("mcts"))
	require.NoError(t, err)
	assert.Nil(t, l4)
}
