package dispatch

import (
	"fmt"

	"FJS-go/simulator"
)

// Rule picks one operation-machine pairing per active instance each round.
// Decide returns decisions aligned with the snapshot's ActiveIdxs order.
type Rule interface {
	Name() string
	Decide(s *simulator.State) []simulator.Decision
}

// ByName builds the rule registered under name. Rules with randomized
// tie-breaking are seeded so runs stay reproducible.
func ByName(name string, seed int64) (Rule, error) {
	switch name {
	case "spt":
		return NewSPTRule(), nil
	case "mor":
		return NewMORRule(), nil
	case "fifo":
		return NewFIFORule(), nil
	case "random":
		return NewRandomRule(seed), nil
	default:
		return nil, fmt.Errorf("unknown dispatch rule %q", name)
	}
}

// RuleNames lists the registered rule names.
func RuleNames() []string {
	return []string{"spt", "mor", "fifo", "random"}
}

type pair struct {
	op       simulator.OpID
	machine  simulator.MachineID
	job      simulator.JobID
	duration simulator.Duration
}

// eligiblePairs enumerates every schedulable operation-machine pairing of
// one batch slot: the job's frontier operation on each idle machine with a
// positive pruned processing time. Jobs mid-operation or finished have no
// frontier.
func eligiblePairs(s *simulator.State, idx int) []pair {
	pairs := make([]pair, 0, s.NumJobs(idx))
	for j := 0; j < s.NumJobs(idx); j++ {
		if s.JobProcing[idx][j] || s.JobFinished[idx][j] {
			continue
		}
		op := s.OpeStep[idx][j]
		for m := 0; m < s.NumMachines(idx); m++ {
			if !s.MaIdle[idx][m] {
				continue
			}
			if dur := s.ProcTimes[idx][op][m]; dur > 0 {
				pairs = append(pairs, pair{
					op:       op,
					machine:  simulator.MachineID(m),
					job:      simulator.JobID(j),
					duration: dur,
				})
			}
		}
	}
	return pairs
}

func decisionOf(p pair) simulator.Decision {
	return simulator.Decision{Op: p.op, Machine: p.machine, Job: p.job}
}

// decideEach runs pick over each active slot's eligible pairings. An active
// slot with no pairing means the engine's eligibility maintenance is broken,
// so it panics rather than emitting a decision the engine would reject.
func decideEach(s *simulator.State, pick func(idx int, pairs []pair) pair) []simulator.Decision {
	decisions := make([]simulator.Decision, 0, len(s.ActiveIdxs))
	for _, idx := range s.ActiveIdxs {
		pairs := eligiblePairs(s, idx)
		if len(pairs) == 0 {
			panic(fmt.Sprintf("dispatch: active instance %d has no eligible pairing", idx))
		}
		decisions = append(decisions, decisionOf(pick(idx, pairs)))
	}
	return decisions
}
