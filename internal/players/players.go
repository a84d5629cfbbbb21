// Package players provides a factory of AI players from configuration strings.
// It also allows searcher providers to register themselves.
package players

import (
	"strings"

	"github.com/janpfeifer/gametree/internal/generics"
	"github.com/janpfeifer/gametree/internal/parameters"
	"github.com/janpfeifer/gametree/internal/searchers"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Player is anything that is able to play the game.
type Player interface {
	// Play returns the action chosen, the next board position (after the action is taken) and the
	// score the player attributes to the action. The given board is not changed.
	Play(board *Board) (action Action, nextBoard *Board, score float64, err error)

	// Finalize is called at the end of a match.
	Finalize()

	// String returns the configuration of the player, for logging.
	String() string
}

// BoardSearcher is a searcher of tic-tac-toe boards.
type BoardSearcher = searchers.Searcher[Action, *Board]

// SearcherBuilder creates a BoardSearcher from the parameters, consuming the keys it uses.
// It must return nil (and no error) if params doesn't select it.
type SearcherBuilder func(params parameters.Params) (BoardSearcher, error)

var (
	// Registered searcher builders, by name.
	registeredSearchers = make(map[string]SearcherBuilder)
)

// RegisterSearcher so it can be selected by New. Usually called from an init function.
func RegisterSearcher(name string, builder SearcherBuilder) {
	if _, found := registeredSearchers[name]; found {
		klog.Warningf("players.RegisterSearcher(%q) called more than once, using the last registration", name)
	}
	registeredSearchers[name] = builder
}

// RegisteredSearchers returns the names of the registered searchers, sorted.
func RegisteredSearchers() []string {
	var names []string
	for name := range generics.SortedKeys(registeredSearchers) {
		names = append(names, name)
	}
	return names
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "ab"
)

// SearcherPlayer is an AI player driven by a searcher. It implements the Player interface.
type SearcherPlayer struct {
	Config   string
	Searcher BoardSearcher
}

// Assert that SearcherPlayer is a Player.
var _ Player = (*SearcherPlayer)(nil)

// New creates a new AI player given the configuration string.
//
// Args:
//
//   - config: a comma-separated list of parameters with optional values associated. Exactly one
//     searcher (e.g. "ab" or "mcts") must be selected. If empty, the default is given by
//     DefaultPlayerConfig. E.g.: "mcts,simulations=2000,seed=7"
//
// Unknown parameters are reported as errors. More details on the config are dependent on the searcher used.
func New(config string) (*SearcherPlayer, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}
	if len(registeredSearchers) == 0 {
		return nil, errors.New("no registered searchers. Perhaps you need to import _ \"github.com/janpfeifer/gametree/internal/players/default\" to your binary ?")
	}
	params := parameters.NewFromConfigString(config)
	player := &SearcherPlayer{Config: config}
	var selected string
	for name, builder := range generics.SortedKeysAndValues(registeredSearchers) {
		s, err := builder(params)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to create AI player %q", config)
		}
		if s == nil {
			// Not this searcher.
			continue
		}
		if player.Searcher != nil {
			return nil, errors.Errorf("multiple searchers (%q and %q) defined in parameters %q", selected, name, config)
		}
		player.Searcher = s
		selected = name
	}
	if player.Searcher == nil {
		return nil, errors.Errorf("no searchers defined in parameters %q, use one of %q", config, RegisteredSearchers())
	}

	// Check that all parameters were processed.
	if len(params) > 0 {
		return nil, errors.Errorf("unknown AI parameters \"%s\" passed", strings.Join(params.Keys(), "\", \""))
	}
	return player, nil
}

// Play implements the Player interface: it chooses an action for the board's next player.
func (p *SearcherPlayer) Play(b *Board) (action Action, nextBoard *Board, score float64, err error) {
	if p.Searcher == nil {
		err = errors.Errorf("player %q already finalized", p.Config)
		return
	}
	action, score, err = p.Searcher.Search(b, b.NextPlayer)
	if err != nil {
		err = errors.WithMessagef(err, "AI (%s) failed to play move #%d", p.Config, b.MoveNumber())
		return
	}
	nextBoard = b.Clone()
	nextBoard.Act(action, b.NextPlayer)
	if klog.V(2).Enabled() {
		klog.Infof("Move #%d: AI (%s) playing %s, score=%.3f", b.MoveNumber(), p.Config, action, score)
	}
	return
}

// Finalize is called at the end of a match.
func (p *SearcherPlayer) Finalize() {
	if klog.V(1).Enabled() {
		klog.Infof("Player (%s) finalized", p.Config)
	}
	p.Searcher = nil
}

// String implements fmt.Stringer and Player.
func (p *SearcherPlayer) String() string {
	return p.Config
}
