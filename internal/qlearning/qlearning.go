// Package qlearning implements a tabular Q-learning player for tic-tac-toe.
//
// It is independent of the tree searchers: it learns the value of each (board, action) pair by
// playing training episodes, and then plays greedily on the learned table. Boards are keyed by
// state.Board.Hash, one digit per cell.
package qlearning

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/gametree/internal/searchers"
	. "github.com/janpfeifer/gametree/internal/state"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Default training hyperparameters.
const (
	DefaultEpisodes     = 100_000
	DefaultLearningRate = 0.5
	DefaultDiscount     = 0.9
	DefaultEpsilon      = 0.1
)

// Values of the actions of one board, indexed by Action.Index. Unvisited actions are worth 0.
type Values [NumCells]float64

// Learner holds the Q-table and the learning hyperparameters.
//
// It implements searchers.Searcher, so it can be used as a player: when searching it explores
// with probability PlayEpsilon, by default 0.
type Learner struct {
	// Q maps a board key (see Board.Hash) to the values of its actions.
	Q map[string]*Values

	LearningRate, Discount float64

	// Epsilon is the probability of exploring a random action during training.
	Epsilon float64

	// PlayEpsilon is the probability of exploring a random action during Search.
	PlayEpsilon float64

	rng *rand.Rand

	// history of the (board key, action) pairs played in the current episode.
	history []step
}

type step struct {
	key    string
	action Action
}

// Assert Learner is a searcher.
var _ searchers.Searcher[Action, *Board] = (*Learner)(nil)

// New creates a Learner with an empty table and the default hyperparameters.
// See searchers.NewRand about the seed.
func New(seed uint64) *Learner {
	return &Learner{
		Q:            make(map[string]*Values),
		LearningRate: DefaultLearningRate,
		Discount:     DefaultDiscount,
		Epsilon:      DefaultEpsilon,
		rng:          searchers.NewRand(seed),
	}
}

// Value returns Q(key, action).
func (l *Learner) Value(key string, action Action) float64 {
	if values, found := l.Q[key]; found {
		return values[action.Index()]
	}
	return 0
}

// ChooseAction picks an action for the board, exploring a uniformly random one with probability
// epsilon, or else one with the highest value. Ties among the highest values are broken uniformly.
//
// The board must not be finished.
func (l *Learner) ChooseAction(b *Board, epsilon float64) Action {
	actions := b.Actions()
	if len(actions) == 0 {
		exceptions.Panicf("qlearning: no actions to choose from on board:\n%s", b)
	}
	if epsilon > 0 && l.rng.Float64() < epsilon {
		return actions[l.rng.IntN(len(actions))]
	}
	key := b.Hash()
	var best []Action
	var bestValue float64
	for _, action := range actions {
		value := l.Value(key, action)
		switch {
		case len(best) == 0 || value > bestValue:
			best = append(best[:0], action)
			bestValue = value
		case value == bestValue:
			best = append(best, action)
		}
	}
	return best[l.rng.IntN(len(best))]
}

// Search implements searchers.Searcher. The score is the learned value of the chosen action.
func (l *Learner) Search(b *Board, player PlayerNum) (action Action, score float64, err error) {
	if _, err = searchers.CheckSearchable[Action, *Board](b, player); err != nil {
		return
	}
	action = l.ChooseAction(b, l.PlayEpsilon)
	score = l.Value(b.Hash(), action)
	return
}

// update applies the Q-learning rule to (key, action):
//
//	Q(s, a) <- Q(s, a) + lr * (reward + γ * max_a' Q(s', a') - Q(s, a))
//
// The maximum is taken over all cells of s', including the occupied ones.
func (l *Learner) update(key string, action Action, nextKey string, reward float64) {
	maxNext := 0.0
	if nextValues, found := l.Q[nextKey]; found {
		for ii, v := range nextValues {
			if ii == 0 || v > maxNext {
				maxNext = v
			}
		}
	}
	values, found := l.Q[key]
	if !found {
		values = &Values{}
		l.Q[key] = values
	}
	current := values[action.Index()]
	values[action.Index()] = current + l.LearningRate*(reward+l.Discount*maxNext-current)
}

// EndEpisode updates the values of the actions played in the episode with its final reward,
// from the last action back to the first, decaying the reward by Discount at every step.
//
// Episodes end on terminal positions, so the next state of each update is the state itself.
func (l *Learner) EndEpisode(reward float64) {
	for ii := len(l.history) - 1; ii >= 0; ii-- {
		st := l.history[ii]
		l.update(st.key, st.action, st.key, reward)
		reward *= l.Discount
	}
	l.history = l.history[:0]
}

// play chooses an action with the training epsilon and records it in the episode history.
func (l *Learner) play(b *Board) Action {
	action := l.ChooseAction(b, l.Epsilon)
	l.history = append(l.history, step{key: b.Hash(), action: action})
	return action
}

// Train the learner for the given number of episodes.
//
// If opponent is nil, a new Learner (with the same hyperparameters) is created to play against,
// and it learns as well. If opponent is another *Learner it also learns, otherwise opponent is
// just used to pick the moves of the other side.
//
// The learner plays first (X) on the first episode and alternates sides afterward.
// If progressOut is not nil, a progress bar is displayed on it.
func (l *Learner) Train(episodes int, opponent searchers.Searcher[Action, *Board], progressOut io.Writer) error {
	if episodes <= 0 {
		return errors.Errorf("number of training episodes must be > 0, got %d", episodes)
	}
	if opponent == nil {
		other := New(l.rng.Uint64() | 1)
		other.LearningRate, other.Discount, other.Epsilon = l.LearningRate, l.Discount, l.Epsilon
		opponent = other
	}
	opponentLearner, _ := opponent.(*Learner)

	var bar *progressbar.ProgressBar
	if progressOut != nil {
		bar = progressbar.NewOptions(episodes,
			progressbar.OptionSetWriter(progressOut),
			progressbar.OptionSetDescription("Training Q-learner"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	}

	start := time.Now()
	learnerPlayer := PlayerFirst
	var wins, losses, draws int
	for episode := range episodes {
		l.history = l.history[:0]
		if opponentLearner != nil {
			opponentLearner.history = opponentLearner.history[:0]
		}
		b := NewBoard()
		for !b.IsFinished() {
			mover := b.NextPlayer
			var action Action
			if mover == learnerPlayer {
				action = l.play(b)
			} else if opponentLearner != nil {
				action = opponentLearner.play(b)
			} else {
				var err error
				action, _, err = opponent.Search(b, mover)
				if err != nil {
					return errors.WithMessagef(err, "opponent failed in training episode %d", episode)
				}
			}
			b.Act(action, mover)
		}

		// Reward from the learner's perspective.
		var reward float64
		switch {
		case b.Wins(learnerPlayer):
			reward = 1
			wins++
		case b.Wins(learnerPlayer.Opponent()):
			reward = -1
			losses++
		default:
			draws++
		}
		l.EndEpisode(reward)
		if opponentLearner != nil {
			opponentLearner.EndEpisode(-reward)
		}

		learnerPlayer = learnerPlayer.Opponent()
		if bar != nil {
			if err := bar.Add(1); err != nil {
				return errors.Wrap(err, "failed to update progress bar")
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if klog.V(1).Enabled() {
		klog.Infof("Q-learner trained for %d episodes in %s: %d wins, %d losses, %d draws, %d boards in table",
			episodes, time.Since(start), wins, losses, draws, len(l.Q))
	}
	return nil
}
