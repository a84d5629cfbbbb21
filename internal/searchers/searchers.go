// Package searchers defines the contract between game states and the search algorithms, and
// the functionality shared by all of them.
//
// The algorithms themselves live in the sub-packages: minimax, alphabeta and mcts.
package searchers

import (
	"github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
)

// State is what search algorithms require from a game position of a two-player, zero-sum,
// perfect-information game.
//
// A is the action type and S is the concrete state type itself (usually a pointer), so that
// Clone returns the concrete type.
type State[A comparable, S any] interface {
	// Actions returns the legal actions, in a stable order. It is empty if the game is over.
	Actions() []A

	// Clone returns an independent copy: acting on the copy never affects the original.
	Clone() S

	// Act applies the action for the given player, changing the receiver.
	Act(action A, player state.PlayerNum)

	// IsFinished returns whether the game is over: a player won or there are no legal actions.
	IsFinished() bool

	// Wins returns whether the given player has won.
	Wins(player state.PlayerNum) bool

	// MoveNumber is the number of moves played so far: 0 for the initial position.
	MoveNumber() int
}

// Searcher is the interface that any of the search algorithms must adhere to.
type Searcher[A comparable, S State[A, S]] interface {
	// Search returns the action chosen for player (who is expected to move in s), and the score of
	// that action. For the minimax variants the score is the game-theoretic value from the fixed
	// perspective of the first player; MCTS returns its mean value estimate for player.
	//
	// The state s is never modified.
	Search(s S, player state.PlayerNum) (action A, score float64, err error)
}

var (
	// ErrNoActions is returned when search is requested on a position without legal actions.
	ErrNoActions = errors.New("no move available")

	// ErrInvalidConfig is returned when a searcher is configured with invalid values (e.g.: a
	// non-positive simulation budget, or a negative depth).
	ErrInvalidConfig = errors.New("invalid searcher configuration")
)

// CheckSearchable returns the legal actions of s, or an error if there are none or if player
// is not valid.
func CheckSearchable[A comparable, S State[A, S]](s S, player state.PlayerNum) ([]A, error) {
	if !player.IsValid() {
		return nil, errors.Wrapf(ErrInvalidConfig, "cannot search for player %s", player)
	}
	actions := s.Actions()
	if len(actions) == 0 {
		return nil, errors.Wrapf(ErrNoActions, "searching for player %s at move #%d", player, s.MoveNumber())
	}
	return actions, nil
}

// WinningAction returns the first action, in the order given by s.Actions, with which player wins
// the game immediately. checked is the number of actions tried, and found is false if there
// is no immediate win.
//
// Minimax values don't distinguish a win now from a forced win later, so the minimax variants
// use this to always take an immediate win.
func WinningAction[A comparable, S State[A, S]](s S, player state.PlayerNum) (action A, checked int, found bool) {
	for _, candidate := range s.Actions() {
		checked++
		child := s.Clone()
		child.Act(candidate, player)
		if child.Wins(player) {
			return candidate, checked, true
		}
	}
	return
}
