package simulator

import (
	"errors"
	"fmt"
)

// ErrMalformedInstance marks a problem definition that can never be
// scheduled, e.g. an operation with no eligible machine. Such cases are
// rejected at load time; the engine never retries them.
var ErrMalformedInstance = errors.New("malformed instance")

// Arc is one eligible (machine, duration) alternative of an operation.
type Arc struct {
	Machine  MachineID
	Duration Duration
}

// Instance holds the static definition of one scheduling problem: the
// operation-machine duration matrix, the job layout and the adjacency
// structures the engine propagates estimates along. It is immutable after
// construction; the engine keeps its own mutable copies of the matrices that
// change as operations are scheduled.
type Instance struct {
	name        string
	numJobs     int
	numMachines int
	numOps      int

	procTimes [][]Duration // op x machine, 0 marks an ineligible pair
	eligible  [][]int      // op x machine adjacency
	preAdj    [][]int      // op x op, arc q-1 -> q inside a job
	subAdj    [][]int      // op x op, transpose of preAdj
	cumulAdj  [][]float64  // op x op cumulative path per job block

	appertain []JobID // op -> owning job
	opeBiases []OpID  // job -> first op
	endBiases []OpID  // job -> last op
	numsOpe   []int   // job -> operation count
}

// NewInstance builds and checks an Instance from per-job operation specs:
// jobOps[j][o] lists the eligible arcs of job j's o-th operation.
func NewInstance(name string, numMachines int, jobOps [][][]Arc) (*Instance, error) {
	if numMachines <= 0 {
		return nil, fmt.Errorf("%w: %s: machine count %d", ErrMalformedInstance, name, numMachines)
	}
	if len(jobOps) == 0 {
		return nil, fmt.Errorf("%w: %s: no jobs", ErrMalformedInstance, name)
	}
	numJobs := len(jobOps)
	numOps := 0
	for j, ops := range jobOps {
		if len(ops) == 0 {
			return nil, fmt.Errorf("%w: %s: job %d has no operations", ErrMalformedInstance, name, j)
		}
		numOps += len(ops)
	}

	ins := &Instance{
		name:        name,
		numJobs:     numJobs,
		numMachines: numMachines,
		numOps:      numOps,
		procTimes:   makeMatrix[Duration](numOps, numMachines),
		eligible:    makeMatrix[int](numOps, numMachines),
		preAdj:      makeMatrix[int](numOps, numOps),
		subAdj:      makeMatrix[int](numOps, numOps),
		cumulAdj:    makeMatrix[float64](numOps, numOps),
		appertain:   make([]JobID, numOps),
		opeBiases:   make([]OpID, numJobs),
		endBiases:   make([]OpID, numJobs),
		numsOpe:     make([]int, numJobs),
	}

	op := OpID(0)
	for j, ops := range jobOps {
		ins.opeBiases[j] = op
		ins.numsOpe[j] = len(ops)
		ins.endBiases[j] = op + OpID(len(ops)) - 1
		for o, arcs := range ops {
			if len(arcs) == 0 {
				return nil, fmt.Errorf("%w: %s: job %d op %d has no eligible machine", ErrMalformedInstance, name, j, o)
			}
			for _, arc := range arcs {
				if arc.Machine < 0 || int(arc.Machine) >= numMachines {
					return nil, fmt.Errorf("%w: %s: job %d op %d references machine %d of %d",
						ErrMalformedInstance, name, j, o, arc.Machine, numMachines)
				}
				if arc.Duration <= 0 {
					return nil, fmt.Errorf("%w: %s: job %d op %d has non-positive duration %v on machine %d",
						ErrMalformedInstance, name, j, o, arc.Duration, arc.Machine)
				}
				if ins.eligible[op][arc.Machine] != 0 {
					return nil, fmt.Errorf("%w: %s: job %d op %d lists machine %d twice",
						ErrMalformedInstance, name, j, o, arc.Machine)
				}
				ins.eligible[op][arc.Machine] = 1
				ins.procTimes[op][arc.Machine] = arc.Duration
			}
			ins.appertain[op] = JobID(j)
			if o > 0 {
				ins.preAdj[op-1][op] = 1
				ins.subAdj[op][op-1] = 1
				// column op inherits column op-1 plus the direct arc,
				// so the block is the job's full ancestor relation
				for p := ins.opeBiases[j]; p < op; p++ {
					ins.cumulAdj[p][op] = ins.cumulAdj[p][op-1]
				}
				ins.cumulAdj[op-1][op] = 1
			}
			op++
		}
	}
	return ins, nil
}

func makeMatrix[T any](rows, cols int) [][]T {
	m := make([][]T, rows)
	for i := range m {
		m[i] = make([]T, cols)
	}
	return m
}

func cloneMatrix[T any](o [][]T) [][]T {
	m := make([][]T, len(o))
	for i, row := range o {
		m[i] = append([]T(nil), row...)
	}
	return m
}

func (ins *Instance) Name() string {
	return ins.name
}

func (ins *Instance) NumJobs() int {
	return ins.numJobs
}

func (ins *Instance) NumMachines() int {
	return ins.numMachines
}

func (ins *Instance) NumOps() int {
	return ins.numOps
}

// JobOf maps an instance-global operation id to its owning job.
func (ins *Instance) JobOf(op OpID) JobID {
	return ins.appertain[op]
}

func (ins *Instance) FirstOp(job JobID) OpID {
	return ins.opeBiases[job]
}

func (ins *Instance) LastOp(job JobID) OpID {
	return ins.endBiases[job]
}

func (ins *Instance) NumOpsOf(job JobID) int {
	return ins.numsOpe[job]
}

// ProcTime returns the declared duration of op on machine, 0 when the pair
// is ineligible. This is the static matrix; the pruned view lives in the
// engine state.
func (ins *Instance) ProcTime(op OpID, machine MachineID) Duration {
	return ins.procTimes[op][machine]
}

func (ins *Instance) EligibleCount(op OpID) int {
	c := 0
	for _, e := range ins.eligible[op] {
		if e != 0 {
			c++
		}
	}
	return c
}
