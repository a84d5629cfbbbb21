// Package ai (Artificial Intelligence) defines how finished positions are scored, shared by
// all the searchers.
//
// Scores are always from a fixed, global perspective: +1 means the first player wins, -1 means
// the second player wins and 0 is a draw or an undecided position, regardless of whose turn it is.
package ai

import (
	. "github.com/janpfeifer/gametree/internal/state"
)

// WinGameScore for the first player. A win for the second player is -WinGameScore.
const WinGameScore = 1.0

// Outcome is the part of a game state needed to score it.
type Outcome interface {
	Wins(player PlayerNum) bool
}

// Evaluate returns the static evaluation of a position from the fixed perspective of the first
// player: +WinGameScore if it won, -WinGameScore if the second player won, and 0 otherwise.
func Evaluate(o Outcome) float64 {
	if o.Wins(PlayerFirst) {
		return WinGameScore
	}
	if o.Wins(PlayerSecond) {
		return -WinGameScore
	}
	return 0
}

// WinScore returns the fixed-perspective score of a win by player.
func WinScore(player PlayerNum) float64 {
	if player == PlayerSecond {
		return -WinGameScore
	}
	return WinGameScore
}

// RewardFor converts the outcome to the reward of the given player: +1 for a win, -1 for a loss
// and 0 otherwise.
func RewardFor(o Outcome, player PlayerNum) float64 {
	score := Evaluate(o)
	if player == PlayerSecond {
		return -score
	}
	return score
}

// EndGame is an Outcome that also knows whether the game is over.
type EndGame interface {
	Outcome
	IsFinished() bool
}

// IsEndGameAndScore returns whether it's the end of the game, and the reward for player if
// it is finished. If isEnd is false, the score should be ignored.
func IsEndGameAndScore(g EndGame, player PlayerNum) (isEnd bool, score float64) {
	if !g.IsFinished() {
		return false, 0
	}
	return true, RewardFor(g, player)
}
