package dispatch

import (
	"FJS-go/simulator"
)

// FIFORule schedules the first eligible pairing in job-then-machine order.
type FIFORule struct{}

func NewFIFORule() *FIFORule {
	return &FIFORule{}
}

func (r *FIFORule) Name() string {
	return "fifo"
}

func (r *FIFORule) Decide(s *simulator.State) []simulator.Decision {
	return decideEach(s, func(idx int, pairs []pair) pair {
		return pairs[0]
	})
}
