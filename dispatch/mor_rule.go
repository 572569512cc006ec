package dispatch

import (
	"FJS-go/simulator"
)

// MORRule schedules the job with the most operations remaining, breaking
// ties by the shortest processing time.
type MORRule struct{}

func NewMORRule() *MORRule {
	return &MORRule{}
}

func (r *MORRule) Name() string {
	return "mor"
}

func (r *MORRule) Decide(s *simulator.State) []simulator.Decision {
	return decideEach(s, func(idx int, pairs []pair) pair {
		remaining := func(p pair) int {
			return s.OpJobUnscheduled[idx][p.op]
		}
		best := pairs[0]
		for _, p := range pairs[1:] {
			if remaining(p) > remaining(best) ||
				(remaining(p) == remaining(best) && p.duration < best.duration) {
				best = p
			}
		}
		return best
	})
}
