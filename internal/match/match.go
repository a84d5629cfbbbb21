// Package match runs matches between players, and tallies the results of a series of matches.
package match

import (
	"context"
	"fmt"

	"github.com/janpfeifer/gametree/internal/players"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Match holds the history of one match.
// The first dimension of all slices is the move (ply) number.
type Match struct {
	// MatchNum is only used for printing.
	MatchNum int

	// Players of the match: the first one plays X.
	Players [2]players.Player

	// Actions taken, alternating players.
	Actions []Action

	// Scores reported by the player of each action.
	Scores []float64

	// All board positions of the game: one more than the number of actions.
	Boards []*Board
}

// FinalBoard position of a match.
func (m *Match) FinalBoard() *Board {
	if len(m.Boards) == 0 {
		return nil
	}
	return m.Boards[len(m.Boards)-1]
}

// Winner of the match, or PlayerInvalid if it was a draw (or it is not finished).
func (m *Match) Winner() PlayerNum {
	b := m.FinalBoard()
	if b == nil {
		return PlayerInvalid
	}
	return b.Winner()
}

// String returns a summary of the match.
func (m *Match) String() string {
	name := fmt.Sprintf("Match-%05d", m.MatchNum)
	switch winner := m.Winner(); {
	case winner != PlayerInvalid:
		return fmt.Sprintf("%s finished: %s (%s) wins in %d moves", name, winner, m.Players[winner], len(m.Actions))
	case m.FinalBoard() != nil && m.FinalBoard().Draw():
		return fmt.Sprintf("%s finished: draw", name)
	default:
		return fmt.Sprintf("%s unfinished after %d moves", name, len(m.Actions))
	}
}

// Run plays a match between matchPlayers, starting from the empty board, until it is finished.
//
// If onMove is not nil, it is called after each move. It returns an error if a player fails, or
// if the context is cancelled: in which case the partial match is also returned.
func Run(ctx context.Context, matchNum int, matchPlayers [2]players.Player, onMove func(m *Match)) (*Match, error) {
	m := &Match{
		MatchNum: matchNum,
		Players:  matchPlayers,
		Boards:   []*Board{NewBoard()},
	}
	if klog.V(1).Enabled() {
		klog.Infof("Starting match %d: %s vs %s", matchNum, matchPlayers[0], matchPlayers[1])
		defer func() { klog.Infof("%s", m) }()
	}
	board := m.FinalBoard()
	for !board.IsFinished() {
		if err := ctx.Err(); err != nil {
			return m, errors.Wrapf(err, "match %d interrupted", matchNum)
		}
		player := matchPlayers[board.NextPlayer]
		action, nextBoard, score, err := player.Play(board)
		if err != nil {
			return m, errors.WithMessagef(err, "match %d, move #%d", matchNum, board.MoveNumber())
		}
		m.Actions = append(m.Actions, action)
		m.Scores = append(m.Scores, score)
		m.Boards = append(m.Boards, nextBoard)
		board = nextBoard
		if onMove != nil {
			onMove(m)
		}
	}
	return m, nil
}
