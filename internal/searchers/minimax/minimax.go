// Package minimax implements an exhaustive depth-bounded minimax searchers.Searcher.
//
// Scores are from the fixed perspective of the first player (see package ai): the first player
// always maximizes and the second player always minimizes.
//
// See: wikipedia.org/wiki/Minimax
package minimax

import (
	"math"
	"time"

	"github.com/janpfeifer/gametree/internal/ai"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Searcher implements the searchers.Searcher interface.
type Searcher[A comparable, S searchers.State[A, S]] struct {
	maxDepth int
	seed     uint64
	stats    Stats
}

// Stats collected during the last search.
type Stats struct {
	// Nodes visited: one per recursive call, including the root and the leaves. When the search
	// ends with an immediate win, the root and the actions tried to find it.
	Nodes int
}

// New returns a minimax searcher that searches until the end of the game.
// See methods Searcher.With... for optional configurations.
func New[A comparable, S searchers.State[A, S]]() *Searcher[A, S] {
	return &Searcher[A, S]{}
}

// WithMaxDepth sets the max depth of search in plies (each player's move counts as one ply).
//
// The default is 0, which means the depth bound is the number of legal actions at the root:
// for games where each move fills one cell, that is the end of the game.
// Negative values are a configuration error reported by Search.
func (m *Searcher[A, S]) WithMaxDepth(maxDepth int) *Searcher[A, S] {
	m.maxDepth = maxDepth
	return m
}

// WithSeed sets the seed used to randomize the opening move. The default 0 seeds it from entropy.
func (m *Searcher[A, S]) WithSeed(seed uint64) *Searcher[A, S] {
	m.seed = seed
	return m
}

// Stats of the last call to Search.
func (m *Searcher[A, S]) Stats() Stats {
	return m.stats
}

// Search implements searchers.Searcher.
//
// The opening move of a game is chosen uniformly at random; its score is still the minimax value.
// If player can win with one move, the first such action is taken right away.
func (m *Searcher[A, S]) Search(s S, player state.PlayerNum) (action A, score float64, err error) {
	if m.maxDepth < 0 {
		err = errors.Wrapf(searchers.ErrInvalidConfig, "minimax max depth must be >= 0, got %d", m.maxDepth)
		return
	}
	actions, err := searchers.CheckSearchable[A, S](s, player)
	if err != nil {
		return
	}
	depth := m.maxDepth
	if depth == 0 {
		depth = len(actions)
	}

	start := time.Now()
	m.stats = Stats{}
	if opening, ok := searchers.RandomOpening[A, S](searchers.NewRand(m.seed), s); ok {
		m.stats.Nodes++
		child := s.Clone()
		child.Act(opening, player)
		_, score = m.recursion(child, depth-1, player.Opponent())
		action = opening
	} else if win, checked, found := searchers.WinningAction[A, S](s, player); found {
		// The root and the children tried.
		m.stats.Nodes += 1 + checked
		action, score = win, ai.WinScore(player)
	} else {
		action, score = m.recursion(s, depth, player)
	}

	if klog.V(2).Enabled() {
		elapsed := time.Since(start).Seconds()
		klog.Infof("minimax: %s plays %v, score=%.1f", player, action, score)
		klog.Infof("  nodes=%d, nodes/s=%.1f", m.stats.Nodes, float64(m.stats.Nodes)/elapsed)
	}
	return
}

// recursion of the minimax algorithm, with depthLeft plies to go and player to move.
func (m *Searcher[A, S]) recursion(s S, depthLeft int, player state.PlayerNum) (bestAction A, bestScore float64) {
	m.stats.Nodes++
	if depthLeft <= 0 || s.IsFinished() {
		return bestAction, ai.Evaluate(s)
	}
	actions := s.Actions()
	if len(actions) == 0 {
		return bestAction, ai.Evaluate(s)
	}

	maximizing := player == state.PlayerFirst
	bestScore = math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}
	for _, action := range actions {
		child := s.Clone()
		child.Act(action, player)
		_, score := m.recursion(child, depthLeft-1, player.Opponent())

		// Strict comparison: on ties the first action found is kept.
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			bestAction = action
		}
	}
	return
}
