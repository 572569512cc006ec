package dispatch

import (
	"FJS-go/simulator"
)

// SPTRule schedules the pairing with the shortest processing time.
type SPTRule struct{}

func NewSPTRule() *SPTRule {
	return &SPTRule{}
}

func (r *SPTRule) Name() string {
	return "spt"
}

func (r *SPTRule) Decide(s *simulator.State) []simulator.Decision {
	return decideEach(s, func(idx int, pairs []pair) pair {
		best := pairs[0]
		for _, p := range pairs[1:] {
			if p.duration < best.duration {
				best = p
			}
		}
		return best
	})
}
