package mcts

import (
	"testing"

	"github.com/janpfeifer/gametree/internal/searchers"
	. "github.com/janpfeifer/gametree/internal/state"
	. "github.com/janpfeifer/gametree/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTree verifies the structural invariants of a finished search tree.
func checkTree(t *testing.T, tr *tree[Action, *Board], budget int) {
	t.Helper()
	root := &tr.nodes[rootNode]
	require.Equal(t, nilNode, root.parent)
	assert.Equal(t, budget, root.visits, "every simulation goes through the root once")

	var rootChildrenVisits int
	for _, child := range root.children {
		rootChildrenVisits += tr.nodes[child].visits
	}
	assert.Equal(t, budget, rootChildrenVisits, "every simulation goes through one child of the root")

	for idx := range tr.nodes {
		n := &tr.nodes[idx]
		var childrenVisits int
		for _, child := range n.children {
			ch := &tr.nodes[child]
			require.Equal(t, nodeIdx(idx), ch.parent)
			require.Equal(t, n.player.Opponent(), ch.player)
			require.Equal(t, n.state.MoveNumber()+1, ch.state.MoveNumber())
			childrenVisits += ch.visits
		}
		require.GreaterOrEqual(t, n.visits, childrenVisits, "node %d", idx)
		require.LessOrEqual(t, n.value, float64(n.visits))
		require.GreaterOrEqual(t, n.value, -float64(n.visits))
	}
}

func TestBuildTree(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		const budget = 700
		m := New[Action, *Board]().WithSeed(17).WithParallelism(parallelism)
		b := BuildBoard(t, "X__/_O_/___")
		tr, err := m.buildTree(b, PlayerFirst, budget)
		require.NoError(t, err)
		checkTree(t, tr, budget)
		assert.Equal(t, len(tr.nodes), m.Stats().Nodes)
		assert.Equal(t, budget, m.Stats().Simulations)
		assert.Len(t, tr.nodes[rootNode].children, 7)
	}
}

func TestColdStart(t *testing.T) {
	// With as many simulations as actions, each child of the root is visited exactly once.
	m := New[Action, *Board]().WithSeed(1)
	b := NewBoard()
	tr, err := m.buildTree(b, PlayerFirst, NumCells)
	require.NoError(t, err)
	for _, child := range tr.nodes[rootNode].children {
		assert.Equal(t, 1, tr.nodes[child].visits)
	}
}

func TestTerminalLeaf(t *testing.T) {
	// Only one move left, and X wins with it: after the first expansion, every simulation
	// selects the same terminal leaf.
	b := BuildBoard(t, "XOO/OXX/XO_")
	m := New[Action, *Board]().WithSeed(1)
	tr, err := m.buildTree(b, PlayerFirst, 10)
	require.NoError(t, err)
	require.Len(t, tr.nodes, 2)
	assert.Equal(t, 9, m.Stats().TerminalLeaves)
	child := &tr.nodes[tr.mostVisited()]
	assert.Equal(t, Action{Row: 2, Col: 2}, child.action)
	// X wins on the diagonal: value is from X's perspective.
	assert.Equal(t, 10.0, child.value)
}

func TestBackpropagateFlipsSign(t *testing.T) {
	b := NewBoard()
	tr := newTree[Action, *Board](b, PlayerFirst, DefaultExploration)
	rng := searchers.NewRand(1)
	child, terminal := tr.expand(rng, rootNode)
	require.False(t, terminal)
	grandChild, terminal := tr.expand(rng, child)
	require.False(t, terminal)

	// The player to move at grandChild (X) won the simulation.
	tr.backpropagate(grandChild, 1)
	assert.Equal(t, -1.0, tr.nodes[grandChild].value, "grandChild was reached by O's move")
	assert.Equal(t, 1.0, tr.nodes[child].value, "child was reached by X's move")
	assert.Equal(t, -1.0, tr.nodes[rootNode].value)
	for _, idx := range []nodeIdx{rootNode, child, grandChild} {
		assert.Equal(t, 1, tr.nodes[idx].visits)
	}
}

func TestRollout(t *testing.T) {
	rng := searchers.NewRand(1)

	// Finished positions are scored as they are.
	xWins := BuildBoard(t, "XXX/OO_/___")
	assert.Equal(t, 1.0, rollout[Action, *Board](rng, xWins.Clone(), PlayerFirst))
	assert.Equal(t, -1.0, rollout[Action, *Board](rng, xWins.Clone(), PlayerSecond))

	// Only one move left, and it wins for X.
	b := BuildBoard(t, "XOO/OXX/XO_")
	playout := b.Clone()
	assert.Equal(t, 1.0, rollout[Action, *Board](rng, playout, PlayerFirst))
	assert.True(t, playout.Wins(PlayerFirst))
	assert.Equal(t, Empty, b.At(Action{Row: 2, Col: 2}), "rollout only changes the given state")

	// Rollouts always reach the end of the game.
	for range 100 {
		playout := NewBoard()
		reward := rollout[Action, *Board](rng, playout, PlayerFirst)
		require.True(t, playout.IsFinished())
		assert.Contains(t, []float64{-1, 0, 1}, reward)
	}
}
