// Package mcts is a Monte Carlo Tree Search implementation of searchers.Searcher, using UCT
// (Upper Confidence bounds applied to Trees) to select which branch to explore, and uniformly
// random playouts to estimate the value of the positions.
//
// Each simulation runs the four phases in sequence:
//
//  1. Select: from the root, follow the child with the highest UCT score, Q/N + C*sqrt(ln(parentN)/N),
//     until a leaf (a node without children) is reached.
//  2. Expand: if the leaf is not terminal, create one child per legal action and pick one at random.
//  3. Simulate: play random moves on a copy of the position until the game ends.
//  4. Backpropagate: update the visit count and value of every node up to the root, flipping the
//     sign of the reward at each step, since consecutive nodes are played by opposing players.
//
// The tree is built fresh for every search and discarded afterward. The action returned is the
// child of the root with the most visits.
//
// References:
//
//   - https://en.wikipedia.org/wiki/Monte_Carlo_tree_search
//   - Kocsis and Szepesvári, "Bandit based Monte-Carlo Planning", 2006.
package mcts

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

const (
	// DefaultSimulations is the default budget of simulations per search.
	DefaultSimulations = 5000

	// DefaultParallelism is the default number of concurrent simulation workers.
	DefaultParallelism = 1
)

// DefaultExploration is the default exploration constant C of the UCT formula.
var DefaultExploration = math.Sqrt2

// Searcher implements searchers.Searcher with MCTS.
type Searcher[A comparable, S searchers.State[A, S]] struct {
	simulations int
	exploration float64
	seed        uint64
	parallelism int

	stats Stats
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher[state.Action, *state.Board] = (*Searcher[state.Action, *state.Board])(nil)

// Stats of the last search.
type Stats struct {
	// Simulations run, it always matches the budget.
	Simulations int

	// TerminalLeaves counts the simulations whose selected leaf was already the end of the game,
	// and hence were not expanded.
	TerminalLeaves int

	// Nodes in the tree at the end of the search, including the root.
	Nodes int
}

// New returns an MCTS searcher with the default configuration. See the Searcher.With... methods.
func New[A comparable, S searchers.State[A, S]]() *Searcher[A, S] {
	return &Searcher[A, S]{
		simulations: DefaultSimulations,
		exploration: DefaultExploration,
		parallelism: DefaultParallelism,
	}
}

// WithSimulations sets the number of simulations per call to Search. It must be > 0.
func (m *Searcher[A, S]) WithSimulations(simulations int) *Searcher[A, S] {
	m.simulations = simulations
	return m
}

// WithExploration sets the exploration constant C of the UCT formula. It must be >= 0, and 0
// means pure exploitation of the current estimates.
func (m *Searcher[A, S]) WithExploration(c float64) *Searcher[A, S] {
	m.exploration = c
	return m
}

// WithSeed makes searches reproducible: each call to Search restarts the random number generator
// with this seed. The default 0 seeds it from entropy.
//
// With parallelism > 1 the order of the simulations depends on the scheduling of the goroutines,
// so results are not reproducible.
func (m *Searcher[A, S]) WithSeed(seed uint64) *Searcher[A, S] {
	m.seed = seed
	return m
}

// WithParallelism sets the number of goroutines running simulations concurrently. Default is 1.
func (m *Searcher[A, S]) WithParallelism(parallelism int) *Searcher[A, S] {
	m.parallelism = parallelism
	return m
}

// Stats of the last call to Search.
func (m *Searcher[A, S]) Stats() Stats {
	return m.stats
}

// Search implements searchers.Searcher, using the configured number of simulations.
//
// The score returned is the mean reward of the chosen action for player, in [-1, 1].
func (m *Searcher[A, S]) Search(s S, player state.PlayerNum) (action A, score float64, err error) {
	return m.SearchWithBudget(s, player, m.simulations)
}

// SearchWithBudget is like Search, but with an explicit number of simulations.
func (m *Searcher[A, S]) SearchWithBudget(s S, player state.PlayerNum, budget int) (action A, score float64, err error) {
	start := time.Now()
	t, err := m.buildTree(s, player, budget)
	if err != nil {
		return
	}
	best := t.mostVisited()
	bestNode := &t.nodes[best]
	action = bestNode.action
	score = bestNode.value / float64(bestNode.visits)

	if klog.V(2).Enabled() {
		elapsed := time.Since(start).Seconds()
		klog.Infof("mcts: %s plays %v, Q/N=%.3f, N=%d", player, action, score, bestNode.visits)
		klog.Infof("  Counts: %+v", m.stats)
		klog.Infof("  simulations/s=%.1f", float64(m.stats.Simulations)/elapsed)
	}
	return
}

// validate the configuration for the given budget.
func (m *Searcher[A, S]) validate(budget int) error {
	if budget <= 0 {
		return errors.Wrapf(searchers.ErrInvalidConfig, "mcts requires a positive number of simulations, got %d", budget)
	}
	if m.exploration < 0 || math.IsNaN(m.exploration) || math.IsInf(m.exploration, 0) {
		return errors.Wrapf(searchers.ErrInvalidConfig, "mcts exploration constant must be finite and >= 0, got %g", m.exploration)
	}
	if m.parallelism < 1 {
		return errors.Wrapf(searchers.ErrInvalidConfig, "mcts parallelism must be >= 1, got %d", m.parallelism)
	}
	return nil
}

// workerRand returns the random number generator for the given worker.
func (m *Searcher[A, S]) workerRand(worker int) *rand.Rand {
	if m.seed == 0 {
		return searchers.NewRand(0)
	}
	return searchers.NewRand(m.seed + uint64(worker))
}

// buildTree runs budget simulations on a tree rooted at s, and returns it.
func (m *Searcher[A, S]) buildTree(s S, player state.PlayerNum, budget int) (*tree[A, S], error) {
	if err := m.validate(budget); err != nil {
		return nil, err
	}
	if _, err := searchers.CheckSearchable[A, S](s, player); err != nil {
		return nil, err
	}
	m.stats = Stats{}
	t := newTree[A, S](s.Clone(), player, m.exploration)

	if m.parallelism == 1 {
		rng := m.workerRand(0)
		for range budget {
			leaf, terminal := m.selectAndExpand(t, rng)
			outcome := rollout[A, S](rng, t.nodes[leaf].state.Clone(), t.nodes[leaf].player)
			m.record(t, leaf, terminal, outcome)
		}
	} else {
		m.runParallel(t, budget)
	}
	m.stats.Nodes = len(t.nodes)
	return t, nil
}

// runParallel runs the simulations in m.parallelism goroutines.
//
// Selection, expansion and backpropagation of each simulation are done holding the tree mutex,
// only the rollouts run concurrently.
func (m *Searcher[A, S]) runParallel(t *tree[A, S], budget int) {
	var mu sync.Mutex
	remaining := budget
	var g errgroup.Group
	for worker := range m.parallelism {
		rng := m.workerRand(worker)
		g.Go(func() error {
			for {
				mu.Lock()
				if remaining == 0 {
					mu.Unlock()
					return nil
				}
				remaining--
				leaf, terminal := m.selectAndExpand(t, rng)
				playout, player := t.nodes[leaf].state.Clone(), t.nodes[leaf].player
				mu.Unlock()

				outcome := rollout[A, S](rng, playout, player)

				mu.Lock()
				m.record(t, leaf, terminal, outcome)
				mu.Unlock()
			}
		})
	}
	// Workers never fail.
	_ = g.Wait()
}

// selectAndExpand runs the selection and expansion phases, and returns the node where the
// simulation should start.
func (m *Searcher[A, S]) selectAndExpand(t *tree[A, S], rng *rand.Rand) (idx nodeIdx, terminal bool) {
	leaf := t.selectLeaf()
	return t.expand(rng, leaf)
}

// record the result of one simulation.
func (m *Searcher[A, S]) record(t *tree[A, S], idx nodeIdx, terminal bool, outcome float64) {
	t.backpropagate(idx, outcome)
	m.stats.Simulations++
	if terminal {
		m.stats.TerminalLeaves++
	}
}
