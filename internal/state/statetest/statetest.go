// Package statetest provides helper functions to create tests using tic-tac-toe boards.
package statetest

import (
	"testing"

	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/stretchr/testify/require"
)

// BuildBoard from a text layout (see state.ParseBoard), failing the test if it is invalid.
func BuildBoard(t testing.TB, layout string) *Board {
	t.Helper()
	b, err := ParseBoard(layout)
	require.NoErrorf(t, err, "failed to parse board %q", layout)
	return b
}

// BuildBoardWithNext is like BuildBoard, but sets the player to move explicitly.
func BuildBoardWithNext(t testing.TB, layout string, next PlayerNum) *Board {
	t.Helper()
	b := BuildBoard(t, layout)
	b.NextPlayer = next
	return b
}

// AllReachable returns every board reachable from the empty board by legal play, including the
// empty board itself and finished boards. Each position is returned only once.
func AllReachable() []*Board {
	seen := make(map[string]bool)
	var boards []*Board
	var visit func(b *Board)
	visit = func(b *Board) {
		key := b.Hash()
		if seen[key] {
			return
		}
		seen[key] = true
		boards = append(boards, b)
		for _, action := range b.Actions() {
			child := b.Clone()
			child.Act(action, b.NextPlayer)
			visit(child)
		}
	}
	visit(NewBoard())
	return boards
}
