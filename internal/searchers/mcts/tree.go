package mcts

import (
	"math"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/gametree/internal/ai"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/state"
)

// nodeIdx is the index of a node in the tree arena.
type nodeIdx int32

// nilNode is the parent of the root.
const nilNode nodeIdx = -1

// rootNode is always the first node created.
const rootNode nodeIdx = 0

// node of the search tree: one explored position.
type node[A comparable, S searchers.State[A, S]] struct {
	// state is never modified after the node is created: simulations run on clones.
	state S

	// player to move at state.
	player state.PlayerNum

	// action that led from the parent to this node. Undefined for the root.
	action A

	parent   nodeIdx
	children []nodeIdx

	// visits (N) and value (Q) accumulated by the simulations that went through this node.
	// value is from the perspective of the player who took action, that is, the parent's player:
	// it is what the parent maximizes when selecting among its children.
	visits int
	value  float64
}

// tree is an arena of nodes: children and parents refer to each other by index, and the whole
// tree is discarded at once at the end of the search.
type tree[A comparable, S searchers.State[A, S]] struct {
	nodes []node[A, S]

	// c is the exploration constant of the UCT formula.
	c float64
}

// newTree creates a tree with only the root, for the given state and player to move.
func newTree[A comparable, S searchers.State[A, S]](s S, player state.PlayerNum, c float64) *tree[A, S] {
	t := &tree[A, S]{c: c}
	var noAction A
	t.addNode(s, player, noAction, nilNode)
	return t
}

func (t *tree[A, S]) addNode(s S, player state.PlayerNum, action A, parent nodeIdx) nodeIdx {
	t.nodes = append(t.nodes, node[A, S]{
		state:  s,
		player: player,
		action: action,
		parent: parent,
	})
	return nodeIdx(len(t.nodes) - 1)
}

// uct score of child, as seen from its parent. Unvisited children score +Inf, so they are all
// visited once before any is revisited.
func (t *tree[A, S]) uct(parent, child nodeIdx) float64 {
	ch := &t.nodes[child]
	if ch.visits == 0 {
		return math.Inf(1)
	}
	parentVisits := t.nodes[parent].visits
	if parentVisits < ch.visits {
		exceptions.Panicf("mcts: parent visits (%d) < child visits (%d)", parentVisits, ch.visits)
	}
	n := float64(ch.visits)
	return ch.value/n + t.c*math.Sqrt(math.Log(float64(parentVisits))/n)
}

// selectLeaf walks down from the root, always taking the child with the highest UCT score,
// until it reaches a node without children. Ties keep the first child.
func (t *tree[A, S]) selectLeaf() nodeIdx {
	idx := rootNode
	for len(t.nodes[idx].children) > 0 {
		best, bestScore := nilNode, math.Inf(-1)
		for _, child := range t.nodes[idx].children {
			score := t.uct(idx, child)
			if best == nilNode || score > bestScore {
				best, bestScore = child, score
			}
		}
		idx = best
	}
	return idx
}

// expand creates one child per legal action of leaf, and returns one of them picked uniformly
// at random. If leaf is terminal it is returned as is, with terminal=true.
func (t *tree[A, S]) expand(rng *rand.Rand, leaf nodeIdx) (idx nodeIdx, terminal bool) {
	if len(t.nodes[leaf].children) > 0 {
		exceptions.Panicf("mcts: expanding node %d that already has children", leaf)
	}
	s, player := t.nodes[leaf].state, t.nodes[leaf].player
	if s.IsFinished() {
		return leaf, true
	}
	actions := s.Actions()
	if len(actions) == 0 {
		return leaf, true
	}
	children := make([]nodeIdx, 0, len(actions))
	for _, action := range actions {
		childState := s.Clone()
		childState.Act(action, player)
		// t.nodes may be reallocated here: no pointers to nodes are held across addNode.
		children = append(children, t.addNode(childState, player.Opponent(), action, leaf))
	}
	t.nodes[leaf].children = children
	return children[rng.IntN(len(children))], false
}

// backpropagate the outcome of a simulation that started at idx, up to the root.
//
// outcome is the reward of the simulation for the player to move at idx. Each node stores
// values from its parent's player perspective, hence the sign flip at every step.
func (t *tree[A, S]) backpropagate(idx nodeIdx, outcome float64) {
	reward := -outcome
	for idx != nilNode {
		n := &t.nodes[idx]
		n.visits++
		n.value += reward
		reward = -reward
		idx = n.parent
	}
}

// mostVisited returns the child of the root with the most visits. Ties keep the first child.
func (t *tree[A, S]) mostVisited() nodeIdx {
	best, bestVisits := nilNode, -1
	for _, child := range t.nodes[rootNode].children {
		if visits := t.nodes[child].visits; visits > bestVisits {
			best, bestVisits = child, visits
		}
	}
	return best
}

// rollout plays uniformly random moves on s (which is modified), starting with player, until the
// game ends. It returns the outcome from the perspective of player.
func rollout[A comparable, S searchers.State[A, S]](rng *rand.Rand, s S, player state.PlayerNum) float64 {
	toMove := player
	for {
		if isEnd, reward := ai.IsEndGameAndScore(s, player); isEnd {
			return reward
		}
		actions := s.Actions()
		if len(actions) == 0 {
			return ai.RewardFor(s, player)
		}
		s.Act(actions[rng.IntN(len(actions))], toMove)
		toMove = toMove.Opponent()
	}
}
