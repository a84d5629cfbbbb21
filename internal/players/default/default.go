// Package _default registers the default players that can be included in any
// front-end for the game.
//
// It includes minimax ("minimax"), alpha-beta pruning ("ab"), Monte Carlo Tree Search ("mcts"),
// a uniformly random player ("random") and the Q-learning player ("q").
package _default

import (
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/players"
	"github.com/janpfeifer/gametree/internal/qlearning"
	"github.com/janpfeifer/gametree/internal/searchers"
	"github.com/janpfeifer/gametree/internal/searchers/alphabeta"
	"github.com/janpfeifer/gametree/internal/searchers/mcts"
	"github.com/janpfeifer/gametree/internal/searchers/minimax"
	. "github.com/janpfeifer/gametree/internal/state"
)

func init() {
	register("minimax", minimax.NewFromParams[Action, *Board])
	register("ab", alphabeta.NewFromParams[Action, *Board])
	register("mcts", mcts.NewFromParams[Action, *Board])
	register("random", searchers.NewRandomFromParams[Action, *Board])
	register("q", qlearning.NewFromParams)
}

// register a constructor that returns a concrete searcher type, or nil if it was not selected.
func register[T any, P interface {
	*T
	players.BoardSearcher
}](name string, newFromParams func(params parameters.Params) (P, error)) {
	players.RegisterSearcher(name, func(params parameters.Params) (players.BoardSearcher, error) {
		s, err := newFromParams(params)
		if err != nil || s == nil {
			// A nil P must not be converted to a non-nil interface.
			return nil, err
		}
		return s, nil
	})
}
