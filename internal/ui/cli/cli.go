// Package cli implements a command-line UI for the game.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/gametree/internal/generics"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// CharsPerCell is the width of each cell of the board.
const CharsPerCell = 5

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

// UI prints boards and reads the human player's actions.
type UI struct {
	color, clearScreen bool
	reader             *bufio.Reader
	out                io.Writer

	// terminalWidth used to center the board: 0 if not printing to a terminal.
	terminalWidth int
}

var (
	actionParser = regexp.MustCompile(`^\s*(-?\d+)[\s,]+(-?\d+)\s*$`)

	// ErrParsing is returned when the user fails to type a valid action 3 times in a row.
	ErrParsing = errors.New("failed to read action 3 times")
)

// New creates a UI on the standard input and output.
func New(color bool, clearScreen bool) *UI {
	ui := NewWithIO(os.Stdin, os.Stdout, color, clearScreen)
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		ui.terminalWidth = width
	}
	return ui
}

// NewWithIO creates a UI that reads actions from in and prints to out.
func NewWithIO(in io.Reader, out io.Writer, color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		reader:      bufio.NewReader(in),
		out:         out,
	}
}

func (ui *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(ui.out, format, args...)
}

func (ui *UI) println(args ...any) {
	_, _ = fmt.Fprintln(ui.out, args...)
}

func (ui *UI) printCentered(block string) {
	lines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((ui.terminalWidth-blockWidth)/2, 0)
	for _, line := range lines {
		if len(line) == 0 {
			ui.println()
			continue
		}
		ui.printf("%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// ParseAction parses a "row col" (or "row,col") action, 0-based.
func ParseAction(text string) (Action, error) {
	matches := actionParser.FindStringSubmatch(text)
	if len(matches) != 3 {
		return Action{}, errors.Errorf("can't parse %q as an action, type the row and the column, e.g.: \"1 2\"", text)
	}
	var coords [2]int
	for ii := range coords {
		v, err := strconv.Atoi(matches[1+ii])
		if err != nil {
			return Action{}, errors.Wrapf(err, "failed to parse coordinate %q in %q", matches[1+ii], text)
		}
		coords[ii] = v
	}
	return Action{Row: coords[0], Col: coords[1]}, nil
}

// RunNextMove reads the action of the board's NextPlayer and returns the board after it is played.
// The given board is not changed.
func (ui *UI) RunNextMove(board *Board) (*Board, error) {
	ui.Print(board, true)
	ui.println()
	action, err := ui.ReadAction(board)
	if err != nil {
		return board, err
	}
	board = board.Clone()
	if err = board.Play(action); err != nil {
		// ReadAction already validated the action.
		return board, errors.WithMessage(err, "invalid action")
	}
	return board, nil
}

// ReadAction reads a valid action for the board's NextPlayer. The user has 3 attempts.
func (ui *UI) ReadAction(b *Board) (action Action, err error) {
	for range 3 {
		ui.printf("    ")
		ui.PrintPlayer(b)
		ui.printf(" action > ")

		var text string
		text, err = ui.reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
			err = errors.Wrap(err, "failed to read action")
			return
		}
		action, err = ParseAction(strings.TrimSpace(text))
		if err != nil {
			ui.printf("    * %s\n", err)
			continue
		}
		if err = b.Clone().Play(action); err != nil {
			ui.printf("    * Action %s is not valid: %s\n", action, err)
			continue
		}
		return action, nil
	}
	err = ErrParsing
	return
}

// Print the move number, the board and whose turn it is.
func (ui *UI) Print(board *Board, includeAvailableActions bool) {
	if ui.clearScreen {
		ui.printf("\033c")
	}
	ui.printf("\nMove #%d\n\n", board.MoveNumber())
	ui.PrintBoard(board)
	ui.println()
	if board.IsFinished() {
		return
	}
	if includeAvailableActions {
		ui.PrintPlayer(board)
		ui.println(" turn to play")
		ui.printActions(board)
	} else {
		ui.printf("\tTurn to play: ")
		ui.PrintPlayer(board)
		ui.println()
	}
}

// PrintPlayer prints the board's NextPlayer, with its color.
func (ui *UI) PrintPlayer(board *Board) {
	ui.printf("%s", ui.playerStyle(board.NextPlayer).Render(fmt.Sprintf("%s Player", board.NextPlayer)))
}

// PrintSpacedPlayer is like PrintPlayer, but includes a left-space for the first player,
// so they all use the same width.
func (ui *UI) PrintSpacedPlayer(board *Board) {
	if board.NextPlayer == PlayerFirst {
		ui.printf(" ")
	}
	ui.PrintPlayer(board)
}

// PrintBoard prints the 3x3 grid, with the row and column numbers.
func (ui *UI) PrintBoard(board *Board) {
	var sb strings.Builder
	cellStyle := lipgloss.NewStyle().Width(CharsPerCell).Align(lipgloss.Center)
	sb.WriteString(" ")
	for col := range BoardSize {
		sb.WriteString(" " + cellStyle.Render(strconv.Itoa(col)))
	}
	sb.WriteString("\n")
	separator := "  " + strings.Repeat("-", BoardSize*(CharsPerCell+1)-1) + "\n"
	for row := range BoardSize {
		if row > 0 {
			sb.WriteString(separator)
		}
		sb.WriteString(strconv.Itoa(row) + " ")
		for col := range BoardSize {
			if col > 0 {
				sb.WriteString("|")
			}
			cell := board.At(Action{Row: row, Col: col})
			text := " "
			style := cellStyle
			if cell != Empty {
				text = cell.String()
				style = style.Inherit(ui.playerStyle(cell.Owner()))
			}
			sb.WriteString(style.Render(text))
		}
		sb.WriteString("\n")
	}
	ui.printCentered(sb.String())
}

func (ui *UI) printActions(b *Board) {
	parts := generics.SliceMap(b.Actions(), func(action Action) string {
		return fmt.Sprintf("%d %d", action.Row, action.Col)
	})
	ui.printf("- Available actions (row col): [%s]\n", strings.Join(parts, "], ["))
}

// PrintWinner prints the outcome of a finished match.
func (ui *UI) PrintWinner(b *Board) {
	ui.println()
	var msg string
	if winner := b.Winner(); winner == PlayerInvalid {
		msg = lipgloss.NewStyle().
			Background(lipgloss.Color("13")).
			Foreground(lipgloss.Color("0")).
			Padding(1, 2).
			Render("*** DRAW! ***")
	} else {
		msg = ui.playerStyle(winner).
			Padding(1, 2).
			Render(fmt.Sprintf("*** %s PLAYER (%s) WINS!! Congratulations! ***",
				strings.ToUpper(winner.String()), winner.Letter()))
	}
	ui.printCentered(msg)
	ui.println()
}

// playerStyle returns the style for the given player: empty if colors are disabled.
func (ui *UI) playerStyle(player PlayerNum) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !ui.color {
		return style
	}
	style = style.Bold(true).Foreground(lipgloss.Color("0"))
	if player == PlayerFirst {
		return style.Background(lipgloss.Color("1"))
	}
	return style.Background(lipgloss.Color("2"))
}
