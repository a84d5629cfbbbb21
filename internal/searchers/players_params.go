package searchers

import (
	"github.com/janpfeifer/gametree/internal/parameters"
)

// NewRandomFromParams creates a RandomSearcher if the "random" key is present in params. It
// consumes the optional "seed" (uint64) key.
//
// It returns nil (and no error) if "random" is not selected.
func NewRandomFromParams[A comparable, S State[A, S]](params parameters.Params) (*RandomSearcher[A, S], error) {
	selected, err := parameters.PopParamOr(params, "random", false)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, nil
	}
	seed, err := parameters.PopParamOr(params, "seed", uint64(0))
	if err != nil {
		return nil, err
	}
	return NewRandomSearcher[A, S](seed), nil
}
