package state

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseBoard creates a board from a text layout, with rows separated by "/" or new lines.
// Each row must have BoardSize cells: "X" or "O" for marks, and any of "_", "." or "-" for
// empty cells. Spaces are ignored, and so "X X _ / O O _ / _ _ _" is a valid layout.
//
// NextPlayer is inferred from the number of marks: PlayerFirst if both players have the same
// number of marks, PlayerSecond if X has one more mark.
func ParseBoard(layout string) (*Board, error) {
	b := NewBoard()
	rows := strings.FieldsFunc(layout, func(r rune) bool { return r == '/' || r == '\n' })
	var parsedRows [][]Cell
	for _, row := range rows {
		row = strings.Join(strings.Fields(row), "")
		if row == "" {
			continue
		}
		cells := make([]Cell, 0, BoardSize)
		for _, r := range row {
			switch r {
			case 'X', 'x':
				cells = append(cells, CellX)
			case 'O', 'o':
				cells = append(cells, CellO)
			case '_', '.', '-':
				cells = append(cells, Empty)
			default:
				return nil, errors.Errorf("invalid character %q in board layout %q", r, layout)
			}
		}
		if len(cells) != BoardSize {
			return nil, errors.Errorf("row %q has %d cells, wanted %d", row, len(cells), BoardSize)
		}
		parsedRows = append(parsedRows, cells)
	}
	if len(parsedRows) != BoardSize {
		return nil, errors.Errorf("board layout %q has %d rows, wanted %d", layout, len(parsedRows), BoardSize)
	}

	var counts [NumPlayers]int
	for row, cells := range parsedRows {
		for col, cell := range cells {
			b.cells[Action{row, col}.Index()] = cell
			if cell != Empty {
				counts[cell.Owner()]++
			}
		}
	}
	switch counts[PlayerFirst] - counts[PlayerSecond] {
	case 0:
		b.NextPlayer = PlayerFirst
	case 1:
		b.NextPlayer = PlayerSecond
	default:
		return nil, errors.Errorf("board layout %q has %d X's and %d O's: X plays first and players alternate",
			layout, counts[PlayerFirst], counts[PlayerSecond])
	}
	b.moveNumber = counts[PlayerFirst] + counts[PlayerSecond]

	xWins, oWins := b.hasLine(CellX), b.hasLine(CellO)
	switch {
	case xWins && oWins:
		return nil, errors.Errorf("board layout %q has both players winning", layout)
	case xWins:
		b.winner = PlayerFirst
	case oWins:
		b.winner = PlayerSecond
	}
	return b, nil
}
