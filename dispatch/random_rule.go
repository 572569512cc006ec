package dispatch

import (
	"math/rand"

	"FJS-go/simulator"
)

// RandomRule schedules a uniformly random eligible pairing. The seed fixes
// the whole run's choices.
type RandomRule struct {
	rng *rand.Rand
}

func NewRandomRule(seed int64) *RandomRule {
	return &RandomRule{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomRule) Name() string {
	return "random"
}

func (r *RandomRule) Decide(s *simulator.State) []simulator.Decision {
	return decideEach(s, func(idx int, pairs []pair) pair {
		return pairs[r.rng.Intn(len(pairs))]
	})
}
