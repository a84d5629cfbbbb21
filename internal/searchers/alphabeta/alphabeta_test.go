package alphabeta_test

import (
	"fmt"
	"testing"

	"github.com/janpfeifer/gametree/internal/ai"
	. "github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/searchers/alphabeta"
	"github.com/janpfeifer/gametree/internal/searchers/minimax"
	. "github.com/janpfeifer/gametree/internal/state"
	. "github.com/janpfeifer/gametree/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAB() *alphabeta.Searcher[Action, *Board] {
	return alphabeta.New[Action, *Board]()
}

func TestWinningMove(t *testing.T) {
	ab := newAB()

	// X completes the top row.
	b := BuildBoard(t, "XX_/OO_/___")
	action, score, err := ab.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
	assert.Equal(t, 1.0, score)

	// Same position, O to move: O wins instead of blocking.
	b = BuildBoardWithNext(t, "XX_/OO_/___", PlayerSecond)
	action, score, err = ab.Search(b, PlayerSecond)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 1, Col: 2}, action)
	assert.Equal(t, -1.0, score)
}

func TestBlock(t *testing.T) {
	// O must block the X row, nothing else saves the game.
	b := BuildBoard(t, "XX_/_O_/___")
	action, _, err := newAB().Search(b, PlayerSecond)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
}

func TestErrors(t *testing.T) {
	finished := BuildBoard(t, "XXX/OO_/___")
	_, _, err := newAB().Search(finished, PlayerSecond)
	assert.True(t, errors.Is(err, ErrNoActions), "got %v", err)

	_, _, err = newAB().WithMaxDepth(-1).Search(NewBoard(), PlayerFirst)
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
}

func TestDepthLimit(t *testing.T) {
	// With one ply X only sees its immediate win.
	ab := newAB().WithMaxDepth(1)
	b := BuildBoard(t, "XX_/OO_/___")
	action, score, err := ab.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, Action{Row: 0, Col: 2}, action)
	assert.Equal(t, 1.0, score)

	// Two plies: nobody can complete a line, so every leaf is a static 0.
	ab = newAB().WithMaxDepth(2)
	b = BuildBoard(t, "X__/_O_/___")
	_, score, err = ab.Search(b, PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
	assert.LessOrEqual(t, ab.Stats().Nodes, 1+7+7*6)
}

// TestMatchesMinimax checks over every reachable position that alpha-beta and minimax agree
// on the action and the score, and that alpha-beta never visits more nodes.
func TestMatchesMinimax(t *testing.T) {
	const seed = 42
	var totalPrunes int
	for _, b := range AllReachable() {
		mm := minimax.New[Action, *Board]().WithSeed(seed)
		ab := alphabeta.New[Action, *Board]().WithSeed(seed)
		player := b.NextPlayer
		mmAction, mmScore, mmErr := mm.Search(b.Clone(), player)
		abAction, abScore, abErr := ab.Search(b.Clone(), player)
		if b.IsFinished() {
			require.True(t, errors.Is(mmErr, ErrNoActions))
			require.True(t, errors.Is(abErr, ErrNoActions))
			continue
		}
		require.NoError(t, mmErr)
		require.NoError(t, abErr)
		msg := fmt.Sprintf("board:\n%s", b)
		require.Equal(t, mmAction, abAction, msg)
		require.Equal(t, mmScore, abScore, msg)

		mmStats, abStats := mm.Stats(), ab.Stats()
		require.LessOrEqual(t, abStats.Nodes, mmStats.Nodes, msg)
		if abStats.Prunes > 0 {
			require.Less(t, abStats.Nodes, mmStats.Nodes, msg)
		}
		totalPrunes += abStats.Prunes
	}
	assert.Greater(t, totalPrunes, 0)
}

func TestImmediateWin(t *testing.T) {
	// (1,1) also wins by force, but X takes the win in one move.
	b := BuildBoard(t, "XOX/O_X/_O_")
	for _, s := range []Searcher[Action, *Board]{newAB(), minimax.New[Action, *Board]()} {
		action, score, err := s.Search(b, PlayerFirst)
		require.NoError(t, err)
		assert.Equal(t, Action{Row: 2, Col: 2}, action)
		assert.Equal(t, 1.0, score)
	}

	// Over every reachable position where the player to move can win with one move, both
	// searchers play a winning move.
	var numPositions int
	for _, b := range AllReachable() {
		if b.IsFinished() {
			continue
		}
		player := b.NextPlayer
		var canWin bool
		for _, action := range b.Actions() {
			child := b.Clone()
			child.Act(action, player)
			if child.Wins(player) {
				canWin = true
				break
			}
		}
		if !canWin {
			continue
		}
		numPositions++
		for _, s := range []Searcher[Action, *Board]{
			alphabeta.New[Action, *Board]().WithSeed(1),
			minimax.New[Action, *Board]().WithSeed(1),
		} {
			action, score, err := s.Search(b.Clone(), player)
			require.NoError(t, err)
			child := b.Clone()
			child.Act(action, player)
			require.Truef(t, child.Wins(player), "%T played %s on board:\n%s", s, action, b)
			require.Equal(t, ai.WinScore(player), score)
		}
	}
	assert.Greater(t, numPositions, 0)
}

func TestOpening(t *testing.T) {
	a1, s1, err := newAB().WithSeed(3).Search(NewBoard(), PlayerFirst)
	require.NoError(t, err)
	a2, s2, err := newAB().WithSeed(3).Search(NewBoard(), PlayerFirst)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	// Tic-tac-toe is a draw from any opening cell.
	assert.Equal(t, 0.0, s1)
	assert.Equal(t, s1, s2)
}

func TestSelfPlayDraw(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		ab := newAB().WithSeed(seed)
		b := NewBoard()
		for !b.IsFinished() {
			player := b.NextPlayer
			action, _, err := ab.Search(b, player)
			require.NoError(t, err)
			require.NoError(t, b.Play(action))
		}
		assert.True(t, b.Draw(), "seed=%d, final board:\n%s", seed, b)
	}
}
