package alphabeta

import (
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/pkg/errors"
)

// NewFromParams creates a alpha-beta searcher if the "ab" key is present in params, consuming the
// keys it recognizes:
//
//   - max_depth (int): max depth of search in plies, default 0 searches to the end of the game.
//   - seed (uint64): seed used for the random opening, default 0 seeds from entropy.
//
// It returns nil (and no error) if "ab" is not selected.
func NewFromParams[A comparable, S searchers.State[A, S]](params parameters.Params) (*Searcher[A, S], error) {
	selected, err := parameters.PopParamOr(params, "ab", false)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, nil
	}
	ab := New[A, S]()
	ab.maxDepth, err = parameters.PopParamOr(params, "max_depth", ab.maxDepth)
	if err != nil {
		return nil, err
	}
	if ab.maxDepth < 0 {
		return nil, errors.Wrapf(searchers.ErrInvalidConfig, "alpha-beta max_depth must be >= 0, got %d", ab.maxDepth)
	}
	ab.seed, err = parameters.PopParamOr(params, "seed", ab.seed)
	if err != nil {
		return nil, err
	}
	return ab, nil
}
