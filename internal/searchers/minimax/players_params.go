package minimax

import (
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/pkg/errors"
)

// NewFromParams creates a minimax searcher if the "minimax" key is present in params, consuming the
// keys it recognizes:
//
//   - max_depth (int): max depth of search in plies, default 0 searches to the end of the game.
//   - seed (uint64): seed used for the random opening, default 0 seeds from entropy.
//
// It returns nil (and no error) if "minimax" is not selected.
func NewFromParams[A comparable, S searchers.State[A, S]](params parameters.Params) (*Searcher[A, S], error) {
	selected, err := parameters.PopParamOr(params, "minimax", false)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, nil
	}
	m := New[A, S]()
	m.maxDepth, err = parameters.PopParamOr(params, "max_depth", m.maxDepth)
	if err != nil {
		return nil, err
	}
	if m.maxDepth < 0 {
		return nil, errors.Wrapf(searchers.ErrInvalidConfig, "minimax max_depth must be >= 0, got %d", m.maxDepth)
	}
	m.seed, err = parameters.PopParamOr(params, "seed", m.seed)
	if err != nil {
		return nil, err
	}
	return m, nil
}
