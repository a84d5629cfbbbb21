// Package alphabeta implements minimax with alpha-beta pruning as a searchers.Searcher.
//
// It returns exactly the same action and score as package minimax for the same input, while
// visiting fewer nodes.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
package alphabeta

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

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher[state.Action, *state.Board] = (*Searcher[state.Action, *state.Board])(nil)

// Stats stores running stats collected during the search: for benchmarking, monitoring, debugging
// and testing purposes.
type Stats struct {
	// Nodes visited: one per recursive call, including the root and the leaves. When the search
	// ends with an immediate win, the root and the actions tried to find it.
	Nodes int

	// Prunes is the number of times sibling branches were cut, leaving at least one action unexplored.
	Prunes int
}

// New returns an Alpha-Beta Pruning based searchers.Searcher implementation.
// There are other optional configurations, see methods Searcher.With...
func New[A comparable, S searchers.State[A, S]]() *Searcher[A, S] {
	return &Searcher[A, S]{}
}

// WithMaxDepth sets the max depth of search: the unit here are plies (ply singular). Each player
// playing counts as one ply. See https://en.wikipedia.org/wiki/Ply_(game_theory).
//
// The default is 0, meaning the number of legal actions at the root, that is, the end of the game.
// Negative values are a configuration error reported by Search.
func (ab *Searcher[A, S]) WithMaxDepth(maxDepth int) *Searcher[A, S] {
	ab.maxDepth = maxDepth
	return ab
}

// WithSeed sets the seed used to randomize the opening move. The default 0 seeds it from entropy.
func (ab *Searcher[A, S]) WithSeed(seed uint64) *Searcher[A, S] {
	ab.seed = seed
	return ab
}

// Stats of the last call to Search.
func (ab *Searcher[A, S]) Stats() Stats {
	return ab.stats
}

// Search implements the searchers.Searcher interface.
//
// The opening move of a game is chosen uniformly at random; its score is still its alpha-beta value.
// If player can win with one move, the first such action is taken right away.
func (ab *Searcher[A, S]) Search(s S, player state.PlayerNum) (action A, score float64, err error) {
	if ab.maxDepth < 0 {
		err = errors.Wrapf(searchers.ErrInvalidConfig, "alpha-beta max depth must be >= 0, got %d", ab.maxDepth)
		return
	}
	actions, err := searchers.CheckSearchable[A, S](s, player)
	if err != nil {
		return
	}
	depth := ab.maxDepth
	if depth == 0 {
		depth = len(actions)
	}

	start := time.Now()
	ab.stats = Stats{}
	alpha, beta := math.Inf(-1), math.Inf(1)
	if opening, ok := searchers.RandomOpening[A, S](searchers.NewRand(ab.seed), s); ok {
		ab.stats.Nodes++
		child := s.Clone()
		child.Act(opening, player)
		_, score = ab.recursion(child, depth-1, player.Opponent(), alpha, beta)
		action = opening
	} else if win, checked, found := searchers.WinningAction[A, S](s, player); found {
		// The root and the children tried.
		ab.stats.Nodes += 1 + checked
		action, score = win, ai.WinScore(player)
	} else {
		action, score = ab.recursion(s, depth, player, alpha, beta)
	}

	if klog.V(2).Enabled() {
		elapsedTime := time.Since(start).Seconds()
		klog.Infof("alpha-beta: %s plays %v, αβ-score=%.1f", player, action, score)
		klog.Infof("  Counts: %+v", ab.stats)
		klog.Infof("  nodes/s=%.1f", float64(ab.stats.Nodes)/elapsedTime)
	}
	return
}

// recursion of the alpha-beta pruning algorithm, with depthLeft plies to go and player to move.
//
// alpha is the best score the maximizer (first player) can already guarantee along this path,
// and beta the best (lowest) score the minimizer can guarantee.
func (ab *Searcher[A, S]) recursion(s S, depthLeft int, player state.PlayerNum, alpha, beta float64) (
	bestAction A, bestScore float64) {
	ab.stats.Nodes++
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
	for actionIdx, action := range actions {
		child := s.Clone()
		child.Act(action, player)
		_, score := ab.recursion(child, depthLeft-1, player.Opponent(), alpha, beta)

		// Strict comparisons: on ties the first action found is kept, as in minimax.
		if maximizing {
			if score > bestScore {
				bestScore = score
				bestAction = action
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore = score
				bestAction = action
			}
			beta = min(beta, bestScore)
		}

		// Prune: the opponent will never let the game reach this position.
		if beta <= alpha {
			if actionIdx < len(actions)-1 {
				ab.stats.Prunes++
			}
			break
		}
	}
	return
}
