package simulator

import (
	"fmt"
	"sort"

	"FJS-go/util"
)

// Verdict is the outcome of checking one instance's schedule against the
// scheduling constraints. A partial schedule fails only the completeness
// check (plus whatever its scheduled prefix violates).
type Verdict struct {
	Slot     int    `json:"slot"`
	Instance string `json:"instance"`
	Passed   bool   `json:"passed"`

	MachineOverlaps int `json:"machine_overlaps"`
	WrongDurations  int `json:"wrong_durations"`
	JobOrderBreaks  int `json:"job_order_breaks"`
	Unscheduled     int `json:"unscheduled"`
}

func (v *Verdict) String() string {
	return fmt.Sprintf("verdict=[instance=%s, passed=%v, overlaps=%d, durations=%d, order=%d, unscheduled=%d]",
		v.Instance, v.Passed, v.MachineOverlaps, v.WrongDurations, v.JobOrderBreaks, v.Unscheduled)
}

// Validate checks every instance's schedule. It reads the entries and the
// pruned duration matrix only; no state is mutated.
func (e *Env) Validate() []*Verdict {
	verdicts := make([]*Verdict, len(e.instances))
	for i, st := range e.instances {
		verdicts[i] = validateRun(st)
	}
	return verdicts
}

// ValidateInstance checks a single batch slot.
func (e *Env) ValidateInstance(idx int) *Verdict {
	return validateRun(e.instances[idx])
}

func validateRun(st *runState) *Verdict {
	ins := st.data
	v := &Verdict{Slot: st.slot, Instance: ins.name}

	perMachine := make([][]OpID, ins.numMachines)
	for q := 0; q < ins.numOps; q++ {
		ent := st.entries[q]
		if !ent.Scheduled {
			v.Unscheduled++
			continue
		}
		perMachine[ent.Machine] = append(perMachine[ent.Machine], OpID(q))
	}

	for k, ops := range perMachine {
		machine := MachineID(k)
		sort.Sort(util.Sorter{
			LenFunc:  func() int { return len(ops) },
			LessFunc: func(i, j int) bool { return st.entries[ops[i]].Start < st.entries[ops[j]].Start },
			SwapFunc: func(i, j int) { ops[i], ops[j] = ops[j], ops[i] },
		})
		for x := 0; x+1 < len(ops); x++ {
			if st.entries[ops[x]].End > st.entries[ops[x+1]].Start {
				v.MachineOverlaps++
			}
		}
		for _, q := range ops {
			ent := st.entries[q]
			if Duration(ent.End-ent.Start) != st.procTimes[q][machine] {
				v.WrongDurations++
			}
		}
	}

	for j := 0; j < ins.numJobs; j++ {
		for q := ins.opeBiases[j]; q < ins.endBiases[j]; q++ {
			if !st.entries[q].Scheduled || !st.entries[q+1].Scheduled {
				continue
			}
			if st.entries[q].End > st.entries[q+1].Start {
				v.JobOrderBreaks++
			}
		}
	}

	v.Passed = v.MachineOverlaps+v.WrongDurations+v.JobOrderBreaks+v.Unscheduled == 0
	return v
}
