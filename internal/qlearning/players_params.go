package qlearning

import (
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/pkg/errors"
)

// NewFromParams creates a Learner to be used as a player if the "q" key is present in params,
// consuming the keys it recognizes:
//
//   - table (string): path to a table saved with SaveToFile. Without it the learner plays
//     with an empty table, that is, randomly.
//   - epsilon (float64): probability of playing a random move, default 0.
//   - seed (uint64): seed for the tie-breaking and exploration, default 0 seeds from entropy.
//
// It returns nil (and no error) if "q" is not selected.
func NewFromParams(params parameters.Params) (*Learner, error) {
	selected, err := parameters.PopParamOr(params, "q", false)
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
	l := New(seed)
	l.PlayEpsilon, err = parameters.PopParamOr(params, "epsilon", l.PlayEpsilon)
	if err != nil {
		return nil, err
	}
	if l.PlayEpsilon < 0 || l.PlayEpsilon > 1 {
		return nil, errors.Errorf("q: epsilon must be in [0, 1], got %g", l.PlayEpsilon)
	}
	tablePath, err := parameters.PopParamOr(params, "table", "")
	if err != nil {
		return nil, err
	}
	if tablePath != "" {
		if err = l.LoadFromFile(tablePath); err != nil {
			return nil, err
		}
	}
	return l, nil
}
