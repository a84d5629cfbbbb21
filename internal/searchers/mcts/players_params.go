package mcts

import (
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/pkg/errors"
)

// NewFromParams creates an MCTS searcher if the "mcts" key is present in params, consuming the
// keys it recognizes:
//
//   - simulations (int): number of simulations per search, default is DefaultSimulations.
//   - c (float64): exploration constant of the UCT formula, default is √2.
//   - seed (uint64): fixed seed for reproducible searches, default 0 seeds from entropy.
//   - parallelism (int): number of goroutines running simulations, default 1.
//
// It returns nil (and no error) if "mcts" is not selected.
func NewFromParams[A comparable, S searchers.State[A, S]](params parameters.Params) (*Searcher[A, S], error) {
	isMCTS, err := parameters.PopParamOr(params, "mcts", false)
	if err != nil {
		return nil, err
	}
	if !isMCTS {
		return nil, nil
	}
	m := New[A, S]()
	m.simulations, err = parameters.PopParamOr(params, "simulations", m.simulations)
	if err != nil {
		return nil, err
	}
	m.exploration, err = parameters.PopParamOr(params, "c", m.exploration)
	if err != nil {
		return nil, err
	}
	m.seed, err = parameters.PopParamOr(params, "seed", m.seed)
	if err != nil {
		return nil, err
	}
	m.parallelism, err = parameters.PopParamOr(params, "parallelism", m.parallelism)
	if err != nil {
		return nil, err
	}
	if err = m.validate(m.simulations); err != nil {
		return nil, errors.WithMessage(err, "mcts configuration")
	}
	return m, nil
}
