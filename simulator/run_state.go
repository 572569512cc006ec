package simulator

import (
	"errors"
	"fmt"
	"math"
)

// ErrIllegalDecision marks a decision that violates the caller contract:
// wrong job, operation not the job's next pending one, machine ineligible or
// busy. Step rejects the whole round before mutating any instance.
var ErrIllegalDecision = errors.New("illegal decision")

// ScheduleEntry is the output artifact of one operation: its assignment and
// its (estimated, then actual) execution window. Start and End hold
// estimates until the operation is scheduled.
type ScheduleEntry struct {
	Scheduled bool
	Machine   MachineID
	Start     Time
	End       Time
}

// runState is the dynamic state of one batch slot. All slices are owned by
// the slot; slots never read each other, so a decision round may fan out
// across goroutines without synchronization.
type runState struct {
	slot int
	data *Instance

	clock          Time
	scheduledCount int

	// pruned copies of the static matrices
	procTimes [][]Duration
	eligible  [][]int
	cumulAdj  [][]float64

	// operation features
	opScheduled      []bool
	opNumEligible    []int
	opProcTime       []Duration // mean over eligible machines until scheduled, then actual
	opJobUnscheduled []int      // fan-out of jobUnscheduled
	opJobCompletion  []Time     // fan-out of jobCompletion
	opStart          []Time     // estimate until scheduled, then actual

	// job-level fields, fanned out to the op arrays above
	jobUnscheduled []int
	jobCompletion  []Time

	// machine features and dynamic attributes
	maNumEligible []int
	maAvailable   []Time
	maUtilization []float64
	maIdle        []bool
	maBusyTime    []Duration
	maServing     []JobID

	entries []ScheduleEntry

	opeStep     []OpID // job -> next pending op
	jobProcing  []bool
	jobFinished []bool

	makespan Time
	reward   Duration
	done     bool

	estScratch []float64
}

// newRunState derives the initial dynamic state of one instance: mean
// processing times, estimated starts propagated along the cumulative
// adjacency and the initial makespan baseline.
func newRunState(slot int, ins *Instance) *runState {
	st := &runState{
		slot:             slot,
		data:             ins,
		procTimes:        cloneMatrix(ins.procTimes),
		eligible:         cloneMatrix(ins.eligible),
		cumulAdj:         cloneMatrix(ins.cumulAdj),
		opScheduled:      make([]bool, ins.numOps),
		opNumEligible:    make([]int, ins.numOps),
		opProcTime:       make([]Duration, ins.numOps),
		opJobUnscheduled: make([]int, ins.numOps),
		opJobCompletion:  make([]Time, ins.numOps),
		opStart:          make([]Time, ins.numOps),
		jobUnscheduled:   make([]int, ins.numJobs),
		jobCompletion:    make([]Time, ins.numJobs),
		maNumEligible:    make([]int, ins.numMachines),
		maAvailable:      make([]Time, ins.numMachines),
		maUtilization:    make([]float64, ins.numMachines),
		maIdle:           make([]bool, ins.numMachines),
		maBusyTime:       make([]Duration, ins.numMachines),
		maServing:        make([]JobID, ins.numMachines),
		entries:          make([]ScheduleEntry, ins.numOps),
		opeStep:          make([]OpID, ins.numJobs),
		jobProcing:       make([]bool, ins.numJobs),
		jobFinished:      make([]bool, ins.numJobs),
		estScratch:       make([]float64, ins.numOps),
	}

	for q := 0; q < ins.numOps; q++ {
		count := 0
		sum := Duration(0)
		for k := 0; k < ins.numMachines; k++ {
			if st.eligible[q][k] != 0 {
				count++
				sum += st.procTimes[q][k]
			}
		}
		st.opNumEligible[q] = count
		st.opProcTime[q] = sum / Duration(count)
		st.entries[q].Machine = NoMachine
	}
	for j := 0; j < ins.numJobs; j++ {
		st.opeStep[j] = ins.opeBiases[j]
		st.jobUnscheduled[j] = ins.numsOpe[j]
		for q := ins.opeBiases[j]; q <= ins.endBiases[j]; q++ {
			st.opJobUnscheduled[q] = ins.numsOpe[j]
		}
	}
	for k := 0; k < ins.numMachines; k++ {
		st.maIdle[k] = true
		st.maServing[k] = NoJob
	}
	st.refreshMachineEligibleCounts()
	st.propagateEstimates()
	st.refreshEntryWindows()
	st.makespan = st.maxCompletion()
	return st
}

func (st *runState) clone() *runState {
	c := &runState{
		slot:             st.slot,
		data:             st.data,
		clock:            st.clock,
		scheduledCount:   st.scheduledCount,
		procTimes:        cloneMatrix(st.procTimes),
		eligible:         cloneMatrix(st.eligible),
		cumulAdj:         cloneMatrix(st.cumulAdj),
		opScheduled:      append([]bool(nil), st.opScheduled...),
		opNumEligible:    append([]int(nil), st.opNumEligible...),
		opProcTime:       append([]Duration(nil), st.opProcTime...),
		opJobUnscheduled: append([]int(nil), st.opJobUnscheduled...),
		opJobCompletion:  append([]Time(nil), st.opJobCompletion...),
		opStart:          append([]Time(nil), st.opStart...),
		jobUnscheduled:   append([]int(nil), st.jobUnscheduled...),
		jobCompletion:    append([]Time(nil), st.jobCompletion...),
		maNumEligible:    append([]int(nil), st.maNumEligible...),
		maAvailable:      append([]Time(nil), st.maAvailable...),
		maUtilization:    append([]float64(nil), st.maUtilization...),
		maIdle:           append([]bool(nil), st.maIdle...),
		maBusyTime:       append([]Duration(nil), st.maBusyTime...),
		maServing:        append([]JobID(nil), st.maServing...),
		entries:          append([]ScheduleEntry(nil), st.entries...),
		opeStep:          append([]OpID(nil), st.opeStep...),
		jobProcing:       append([]bool(nil), st.jobProcing...),
		jobFinished:      append([]bool(nil), st.jobFinished...),
		makespan:         st.makespan,
		reward:           st.reward,
		done:             st.done,
		estScratch:       make([]float64, st.data.numOps),
	}
	return c
}

// checkDecision enforces the decision preconditions without mutating state.
func (st *runState) checkDecision(d Decision) error {
	ins := st.data
	if d.Op < 0 || int(d.Op) >= ins.numOps {
		return fmt.Errorf("%w: instance %d (%s): op %d out of range [0, %d)",
			ErrIllegalDecision, st.slot, ins.name, d.Op, ins.numOps)
	}
	if d.Machine < 0 || int(d.Machine) >= ins.numMachines {
		return fmt.Errorf("%w: instance %d (%s): machine %d out of range [0, %d)",
			ErrIllegalDecision, st.slot, ins.name, d.Machine, ins.numMachines)
	}
	if d.Job < 0 || int(d.Job) >= ins.numJobs {
		return fmt.Errorf("%w: instance %d (%s): job %d out of range [0, %d)",
			ErrIllegalDecision, st.slot, ins.name, d.Job, ins.numJobs)
	}
	if ins.appertain[d.Op] != d.Job {
		return fmt.Errorf("%w: instance %d (%s): op %d belongs to job %d, not job %d",
			ErrIllegalDecision, st.slot, ins.name, d.Op, ins.appertain[d.Op], d.Job)
	}
	if st.jobFinished[d.Job] {
		return fmt.Errorf("%w: instance %d (%s): job %d is already finished",
			ErrIllegalDecision, st.slot, ins.name, d.Job)
	}
	if st.jobProcing[d.Job] {
		return fmt.Errorf("%w: instance %d (%s): job %d is in process",
			ErrIllegalDecision, st.slot, ins.name, d.Job)
	}
	if st.opeStep[d.Job] != d.Op {
		return fmt.Errorf("%w: instance %d (%s): op %d is not job %d's next pending op (expect %d)",
			ErrIllegalDecision, st.slot, ins.name, d.Op, d.Job, st.opeStep[d.Job])
	}
	if st.eligible[d.Op][d.Machine] == 0 || st.procTimes[d.Op][d.Machine] <= 0 {
		return fmt.Errorf("%w: instance %d (%s): machine %d is not eligible for op %d",
			ErrIllegalDecision, st.slot, ins.name, d.Machine, d.Op)
	}
	if !st.maIdle[d.Machine] {
		return fmt.Errorf("%w: instance %d (%s): machine %d is busy until %v",
			ErrIllegalDecision, st.slot, ins.name, d.Machine, st.maAvailable[d.Machine])
	}
	return nil
}

// apply executes one validated decision: prune, schedule, re-estimate,
// occupy the machine and rebase the makespan. Reward is the makespan
// decrease against the previous round.
func (st *runState) apply(d Decision) {
	ins := st.data
	op, ma, job := d.Op, d.Machine, d.Job
	dur := st.procTimes[op][ma]

	// the chosen op keeps a single arc; pruned arcs read as absent
	for k := 0; k < ins.numMachines; k++ {
		st.eligible[op][k] = 0
		st.procTimes[op][k] = 0
	}
	st.eligible[op][ma] = 1
	st.procTimes[op][ma] = dur

	st.opScheduled[op] = true
	st.opNumEligible[op] = 1
	st.opProcTime[op] = dur

	// the predecessor's start no longer feeds estimates through this op
	if op > ins.opeBiases[job] {
		row := st.cumulAdj[op-1]
		for q := range row {
			row[q] = 0
		}
	}

	st.jobUnscheduled[job]--
	for q := ins.opeBiases[job]; q <= ins.endBiases[job]; q++ {
		st.opJobUnscheduled[q] = st.jobUnscheduled[job]
	}

	st.opStart[op] = st.clock
	st.propagateEstimates()

	st.entries[op].Scheduled = true
	st.entries[op].Machine = ma
	st.refreshEntryWindows()

	st.maIdle[ma] = false
	st.maAvailable[ma] = st.clock + Time(dur)
	st.maBusyTime[ma] += dur
	st.maServing[ma] = job

	st.refreshMachineEligibleCounts()
	st.refreshUtilization()

	st.opeStep[job]++
	st.jobProcing[job] = true
	if st.opeStep[job] > ins.endBiases[job] {
		st.jobFinished[job] = true
	}
	st.scheduledCount++

	newMakespan := st.maxCompletion()
	st.reward = Duration(st.makespan - newMakespan)
	st.makespan = newMakespan
	st.done = st.allJobsFinished()
}

// propagateEstimates recomputes estimated starts for unscheduled operations
// as (maskedStart + procTime) times the cumulative adjacency, then refreshes
// job completion estimates and their per-op fan-out. Scheduled operations
// keep their actual start.
func (st *runState) propagateEstimates() {
	ins := st.data
	n := ins.numOps
	contrib := st.estScratch
	for p := 0; p < n; p++ {
		s := float64(st.opProcTime[p])
		if st.opScheduled[p] {
			s += float64(st.opStart[p])
		}
		contrib[p] = s
	}
	for q := 0; q < n; q++ {
		if st.opScheduled[q] {
			continue
		}
		est := 0.0
		for p := 0; p < n; p++ {
			if a := st.cumulAdj[p][q]; a != 0 {
				est += contrib[p] * a
			}
		}
		st.opStart[q] = Time(est)
	}
	for j := 0; j < ins.numJobs; j++ {
		end := ins.endBiases[j]
		st.jobCompletion[j] = st.opStart[end] + Time(st.opProcTime[end])
		for q := ins.opeBiases[j]; q <= end; q++ {
			st.opJobCompletion[q] = st.jobCompletion[j]
		}
	}
}

// refreshEntryWindows overwrites every entry's window with the current
// start/completion values; scheduled entries hold actual times already.
func (st *runState) refreshEntryWindows() {
	for q := range st.entries {
		st.entries[q].Start = st.opStart[q]
		st.entries[q].End = st.opStart[q] + Time(st.opProcTime[q])
	}
}

func (st *runState) refreshMachineEligibleCounts() {
	ins := st.data
	for k := 0; k < ins.numMachines; k++ {
		c := 0
		for q := 0; q < ins.numOps; q++ {
			if st.eligible[q][k] != 0 {
				c++
			}
		}
		st.maNumEligible[k] = c
	}
}

func (st *runState) refreshUtilization() {
	for k := range st.maUtilization {
		st.maUtilization[k] = utilization(st.maBusyTime[k], st.clock)
	}
}

// utilization treats a zero elapsed time as zero utilization.
func utilization(busy Duration, clock Time) float64 {
	if clock <= 0 {
		return 0
	}
	return math.Min(float64(busy), float64(clock)) / float64(clock)
}

// hasEligible reports whether some (idle machine, waiting job) pair can
// process the job's pending operation at the current clock.
func (st *runState) hasEligible() bool {
	ins := st.data
	for j := 0; j < ins.numJobs; j++ {
		if st.jobProcing[j] || st.jobFinished[j] {
			continue
		}
		op := st.opeStep[j]
		for k := 0; k < ins.numMachines; k++ {
			if st.maIdle[k] && st.procTimes[op][MachineID(k)] > 0 {
				return true
			}
		}
	}
	return false
}

// nextTime jumps the clock to the next machine-availability event, frees the
// machines reaching it and releases the jobs they served.
func (st *runState) nextTime() {
	ins := st.data
	next := Time(math.Inf(1))
	for k := 0; k < ins.numMachines; k++ {
		if !st.maIdle[k] && st.maAvailable[k] > st.clock && st.maAvailable[k] < next {
			next = st.maAvailable[k]
		}
	}
	if math.IsInf(float64(next), 1) {
		panic(fmt.Sprintf("simulator: instance %d (%s) stalled at clock %v with no busy machine",
			st.slot, ins.name, st.clock))
	}
	st.clock = next
	for k := 0; k < ins.numMachines; k++ {
		if !st.maIdle[k] && st.maAvailable[k] == st.clock {
			st.maIdle[k] = true
			job := st.maServing[k]
			st.maServing[k] = NoJob
			if job != NoJob && !st.jobFinished[job] {
				st.jobProcing[job] = false
			}
		}
	}
	st.refreshUtilization()
	st.refreshFinished()
}

func (st *runState) refreshFinished() {
	ins := st.data
	for j := 0; j < ins.numJobs; j++ {
		if st.opeStep[j] > ins.endBiases[j] {
			st.jobFinished[j] = true
		}
	}
	st.done = st.allJobsFinished()
}

// advance loops stall detection and clock jumps until the instance has an
// eligible pair or completes. Each iteration frees at least one busy machine
// and none start, so the loop is bounded by the machine count.
func (st *runState) advance() {
	for iter := 0; !st.done && !st.hasEligible(); iter++ {
		if iter >= st.data.numMachines {
			panic(fmt.Sprintf("simulator: time advance for instance %d (%s) exceeded %d iterations at clock %v, job pointers %v",
				st.slot, st.data.name, st.data.numMachines, st.clock, st.opeStep))
		}
		st.nextTime()
	}
}

func (st *runState) allJobsFinished() bool {
	for _, f := range st.jobFinished {
		if !f {
			return false
		}
	}
	return true
}

func (st *runState) maxCompletion() Time {
	max := Time(math.Inf(-1))
	for _, c := range st.jobCompletion {
		if c > max {
			max = c
		}
	}
	return max
}
