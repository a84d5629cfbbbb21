package searchers

import (
	"math/rand/v2"

	"github.com/janpfeifer/gametree/internal/state"
	"k8s.io/klog/v2"
)

// NewRand returns the source of randomness used by the searchers.
//
// If seed is not 0 the sequence is deterministic, which makes searches reproducible.
// Otherwise, it is seeded from entropy.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomOpening returns a uniformly random action if s is the initial position of the game,
// and ok=true. Otherwise, it returns ok=false.
//
// Minimax variants are fully deterministic, and would always open the same way; this makes
// their openings unpredictable.
func RandomOpening[A comparable, S State[A, S]](rng *rand.Rand, s S) (action A, ok bool) {
	if s.MoveNumber() != 0 {
		return
	}
	actions := s.Actions()
	if len(actions) == 0 {
		return
	}
	return actions[rng.IntN(len(actions))], true
}

// RandomSearcher picks uniformly among the legal actions. It's used as a baseline opponent.
type RandomSearcher[A comparable, S State[A, S]] struct {
	rng *rand.Rand
}

// NewRandomSearcher creates a RandomSearcher. See NewRand about the seed.
func NewRandomSearcher[A comparable, S State[A, S]](seed uint64) *RandomSearcher[A, S] {
	return &RandomSearcher[A, S]{rng: NewRand(seed)}
}

// Search implements Searcher. The score returned is always 0.
func (rs *RandomSearcher[A, S]) Search(s S, player state.PlayerNum) (action A, score float64, err error) {
	actions, err := CheckSearchable[A, S](s, player)
	if err != nil {
		return
	}
	action = actions[rs.rng.IntN(len(actions))]
	if klog.V(3).Enabled() {
		klog.Infof("RandomSearcher: %s plays %v out of %d actions", player, action, len(actions))
	}
	return
}
