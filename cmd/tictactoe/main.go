// tictactoe plays a match in the terminal: human vs AI (default), human vs human (-hotseat),
// or AI vs AI (-watch).
//
// The AIs are configured with a comma-separated list of parameters (see players.New), e.g.:
//
//	$ go run ./cmd/tictactoe -config=mcts,simulations=20000
//	$ go run ./cmd/tictactoe -watch -config=ab -config2=q,table=q.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/janpfeifer/gametree/internal/players"
	_ "github.com/janpfeifer/gametree/internal/players/default"
	"github.com/janpfeifer/gametree/internal/profilers"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/janpfeifer/gametree/internal/ui/cli"
	"github.com/janpfeifer/gametree/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagHotseat   = flag.Bool("hotseat", false, "Hotseat match: human vs human")
	flagWatch     = flag.Bool("watch", false, "Watch mode: AI vs AI playing")
	flagFirst     = flag.String("first", "", "Who plays first: human or ai. Default is random.")
	flagAIConfig  = flag.String("config", players.DefaultPlayerConfig, "AI configuration against which to play")
	flagAIConfig2 = flag.String("config2", players.DefaultPlayerConfig, "Second AI configuration, if playing AI vs AI with --watch")
	flagQuiet     = flag.Bool("quiet", false, "Quiet mode for when watching AI play, only the actions and the last board position is printed.")
	flagColor     = flag.Bool("color", true, "Use colors when printing the board.")
	flagClear     = flag.Bool("clear", false, "Clear the screen before printing the board.")

	// aiPlayers: if nil, it's a human playing.
	aiPlayers = [2]players.Player{nil, nil}

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	must.M(createPlayers())
	defer func() {
		for _, p := range aiPlayers {
			if p != nil {
				p.Finalize()
			}
		}
	}()

	ui := cli.New(*flagColor, *flagClear)
	board, err := playMatch(ui)
	if err != nil {
		klog.Exitf("Failed to run match: %+v", err)
	}
	ui.Print(board, false)
	ui.PrintWinner(board)
}

// playMatch loops over the moves until the match is finished, and returns the final board.
func playMatch(ui *cli.UI) (*Board, error) {
	board := NewBoard()
	for !board.IsFinished() {
		if err := globalCtx.Err(); err != nil {
			return board, errors.Wrap(err, "match interrupted")
		}
		aiPlayer := aiPlayers[board.NextPlayer]
		if aiPlayer == nil {
			newBoard, err := ui.RunNextMove(board)
			if err != nil {
				return board, err
			}
			board = newBoard
			continue
		}

		// AI plays.
		if *flagWatch && !*flagQuiet {
			ui.Print(board, false)
			fmt.Printf("\t%s action: ", aiPlayer)
		} else {
			fmt.Printf("AI: %s\n", aiPlayer)
			ui.PrintSpacedPlayer(board)
		}
		s := spinning.New(globalCtx)
		action, newBoard, score, err := aiPlayer.Play(board)
		s.Done()
		if err != nil {
			return board, errors.WithMessagef(err, "AI %s failed to play", aiPlayer)
		}
		fmt.Printf(" %s (score=%.3f)\n", action, score)
		board = newBoard
		fmt.Println()
	}
	return board, nil
}

// createPlayers in aiPlayers.
func createPlayers() error {
	if *flagHotseat && *flagWatch {
		return errors.New("--hotseat and --watch cannot be used together")
	}
	if *flagHotseat {
		// Both players are human, nothing to do.
		return nil
	}

	// Create AI player:
	var aiPlayerNum PlayerNum
	switch {
	case *flagWatch:
		aiPlayerNum = PlayerFirst
	case strings.ToLower(*flagFirst) == "human":
		aiPlayerNum = PlayerSecond
	case strings.ToLower(*flagFirst) == "ai":
		aiPlayerNum = PlayerFirst
	case *flagFirst == "":
		aiPlayerNum = PlayerNum(rand.IntN(2))
	default:
		return errors.Errorf("invalid --first=%q, only valid values are \"human\" or \"ai\"", *flagFirst)
	}
	p, err := players.New(*flagAIConfig)
	if err != nil {
		return errors.WithMessage(err, "--config")
	}
	aiPlayers[aiPlayerNum] = p
	if !*flagWatch {
		return nil
	}

	// Create second AI
	p, err = players.New(*flagAIConfig2)
	if err != nil {
		return errors.WithMessage(err, "--config2")
	}
	aiPlayers[aiPlayerNum.Opponent()] = p
	return nil
}
