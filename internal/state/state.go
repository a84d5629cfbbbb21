// Package state implements the tic-tac-toe board used by the searchers, along with the identity
// of the two players.
//
// Board is a value type: Clone returns an independent copy, and Act only ever changes the
// receiver. Search algorithms explore hypothetical futures on clones and never touch the
// caller's board.
package state

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

const (
	// NumPlayers is always 2.
	NumPlayers = 2

	// BoardSize is the number of rows and of columns of the board.
	BoardSize = 3

	// NumCells in the board.
	NumCells = BoardSize * BoardSize
)

// PlayerNum is either PlayerFirst (plays "X") or PlayerSecond (plays "O").
type PlayerNum uint8

const (
	PlayerFirst PlayerNum = iota
	PlayerSecond

	// PlayerInvalid represents an invalid PlayerNum. It is used as the "winner" of a draw.
	PlayerInvalid
)

var (
	playerNames   = [...]string{"First", "Second", "Invalid"}
	playerLetters = [...]string{"X", "O", "-"}
)

// String returns "First", "Second" or "Invalid".
func (p PlayerNum) String() string {
	if p > PlayerInvalid {
		return fmt.Sprintf("PlayerNum(%d)", p)
	}
	return playerNames[p]
}

// Letter used to display the player's marks: "X" or "O".
func (p PlayerNum) Letter() string {
	if p > PlayerInvalid {
		return "?"
	}
	return playerLetters[p]
}

// Opponent returns the other player. The opponent of PlayerInvalid is PlayerInvalid.
func (p PlayerNum) Opponent() PlayerNum {
	switch p {
	case PlayerFirst:
		return PlayerSecond
	case PlayerSecond:
		return PlayerFirst
	}
	return PlayerInvalid
}

// IsValid returns whether p is one of the two players.
func (p PlayerNum) IsValid() bool {
	return p == PlayerFirst || p == PlayerSecond
}

// Action is a move: the coordinates of the cell where the mark is placed.
type Action struct {
	Row, Col int
}

// String returns "(row, col)".
func (a Action) String() string {
	return fmt.Sprintf("(%d, %d)", a.Row, a.Col)
}

// InBounds returns whether the action refers to a cell in the board.
func (a Action) InBounds() bool {
	return a.Row >= 0 && a.Row < BoardSize && a.Col >= 0 && a.Col < BoardSize
}

// Index of the cell in row-major order.
func (a Action) Index() int {
	return a.Row*BoardSize + a.Col
}

// ActionFromIndex is the inverse of Action.Index.
func ActionFromIndex(idx int) Action {
	return Action{Row: idx / BoardSize, Col: idx % BoardSize}
}

// Cell holds the contents of one position of the board.
type Cell uint8

const (
	Empty Cell = iota
	CellX
	CellO
)

// CellFor returns the mark a player leaves on the board.
func CellFor(player PlayerNum) Cell {
	return Cell(player + 1)
}

// Owner returns the player who marked the cell, or PlayerInvalid if it is empty.
func (c Cell) Owner() PlayerNum {
	if c == Empty || c > CellO {
		return PlayerInvalid
	}
	return PlayerNum(c - 1)
}

// Errors returned by Board.Play, when validating untrusted actions.
var (
	ErrOutOfBounds = errors.New("action out of bounds")
	ErrOccupied    = errors.New("cell already occupied")
	ErrGameOver    = errors.New("game is already over")
)

// lines are all the winning alignments, as cell indices.
var lines = [...][BoardSize]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // Rows.
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // Columns.
	{0, 4, 8}, {2, 4, 6}, // Diagonals.
}

// Board represents one position of a tic-tac-toe match.
//
// The zero value is not ready to use, create it with NewBoard or ParseBoard.
type Board struct {
	cells [NumCells]Cell

	// NextPlayer is the player expected to move. It is updated by Act, but searchers pass the
	// mover explicitly, so tests may set it directly.
	NextPlayer PlayerNum

	moveNumber int
	winner     PlayerNum
}

// NewBoard returns an empty board, with PlayerFirst to move.
func NewBoard() *Board {
	return &Board{NextPlayer: PlayerFirst, winner: PlayerInvalid}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	newB := *b
	return &newB
}

// MoveNumber is the number of marks on the board: 0 for the empty board.
func (b *Board) MoveNumber() int {
	return b.moveNumber
}

// At returns the contents of the cell at the given position.
func (b *Board) At(action Action) Cell {
	return b.cells[action.Index()]
}

// NumEmpty returns the number of empty cells.
func (b *Board) NumEmpty() int {
	return NumCells - b.moveNumber
}

// Actions returns the legal actions, in row-major order. It returns nil if the game is over.
func (b *Board) Actions() []Action {
	if b.IsFinished() {
		return nil
	}
	actions := make([]Action, 0, b.NumEmpty())
	for idx, cell := range b.cells {
		if cell == Empty {
			actions = append(actions, ActionFromIndex(idx))
		}
	}
	return actions
}

// Act marks the cell of action for the given player, and passes the turn to the opponent.
//
// It panics if the action is not legal: use Play to validate actions coming from users.
func (b *Board) Act(action Action, player PlayerNum) {
	if !action.InBounds() || b.cells[action.Index()] != Empty || !player.IsValid() || b.IsFinished() {
		exceptions.Panicf("invalid action %s for player %s on board:\n%s", action, player, b)
	}
	b.cells[action.Index()] = CellFor(player)
	b.moveNumber++
	b.NextPlayer = player.Opponent()
	if b.hasLine(CellFor(player)) {
		b.winner = player
	}
}

// Play validates the action for the NextPlayer and then acts on it.
func (b *Board) Play(action Action) error {
	if b.IsFinished() {
		return ErrGameOver
	}
	if !action.InBounds() {
		return errors.Wrapf(ErrOutOfBounds, "action %s", action)
	}
	if b.At(action) != Empty {
		return errors.Wrapf(ErrOccupied, "action %s", action)
	}
	b.Act(action, b.NextPlayer)
	return nil
}

func (b *Board) hasLine(mark Cell) bool {
	for _, line := range lines {
		if b.cells[line[0]] == mark && b.cells[line[1]] == mark && b.cells[line[2]] == mark {
			return true
		}
	}
	return false
}

// IsFinished returns whether either player won or there are no more empty cells.
func (b *Board) IsFinished() bool {
	return b.winner != PlayerInvalid || b.moveNumber >= NumCells
}

// Wins returns whether the given player has three in a row.
func (b *Board) Wins(player PlayerNum) bool {
	return player.IsValid() && b.winner == player
}

// Winner returns the winning player, or PlayerInvalid if there is none (yet).
func (b *Board) Winner() PlayerNum {
	return b.winner
}

// Draw returns whether the match finished without a winner.
func (b *Board) Draw() bool {
	return b.IsFinished() && b.winner == PlayerInvalid
}

// Hash returns a string key for the position: one digit per cell in row-major order, "0" for
// empty, "1" for X and "2" for O.
func (b *Board) Hash() string {
	var sb strings.Builder
	sb.Grow(NumCells)
	for _, cell := range b.cells {
		sb.WriteByte('0' + byte(cell))
	}
	return sb.String()
}

// String renders the board in 3 lines, using "." for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	for row := range BoardSize {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range BoardSize {
			sb.WriteString(b.At(Action{row, col}).String())
		}
	}
	return sb.String()
}

// String returns "X", "O" or "." for an empty cell.
func (c Cell) String() string {
	if c == Empty {
		return "."
	}
	return c.Owner().Letter()
}
