package simulator

// State is the read-only snapshot consumed by the decision maker. Dynamic
// fields are refreshed once per round, after the time-advance loop, so a
// snapshot never exposes a partially updated round. Instances are ragged:
// index the outer slices by batch slot.
//
// The slices alias engine memory for the sake of large batches; callers
// must treat them as read-only.
type State struct {
	// ActiveIdxs lists the batch slots still requiring decisions, in the
	// order Step expects them on the next round.
	ActiveIdxs []int
	Clock      []Time
	Done       []bool

	// operation features
	OpScheduled      [][]bool
	OpNumEligible    [][]int
	OpProcTime       [][]Duration
	OpJobUnscheduled [][]int
	OpJobCompletion  [][]Time
	OpStart          [][]Time

	// pruned matrices
	ProcTimes [][][]Duration
	Eligible  [][][]int

	// machine features
	MaNumEligible [][]int
	MaAvailable   [][]Time
	MaUtilization [][]float64
	MaIdle        [][]bool

	// job masks and pointers
	JobProcing  [][]bool
	JobFinished [][]bool
	OpeStep     [][]OpID

	// static layout, fixed at construction
	Appertain [][]JobID
	OpeBiases [][]OpID
	EndBiases [][]OpID
	NumsOpes  []int
}

func newState(e *Env) *State {
	n := len(e.instances)
	s := &State{
		Clock:            make([]Time, n),
		Done:             make([]bool, n),
		OpScheduled:      make([][]bool, n),
		OpNumEligible:    make([][]int, n),
		OpProcTime:       make([][]Duration, n),
		OpJobUnscheduled: make([][]int, n),
		OpJobCompletion:  make([][]Time, n),
		OpStart:          make([][]Time, n),
		ProcTimes:        make([][][]Duration, n),
		Eligible:         make([][][]int, n),
		MaNumEligible:    make([][]int, n),
		MaAvailable:      make([][]Time, n),
		MaUtilization:    make([][]float64, n),
		MaIdle:           make([][]bool, n),
		JobProcing:       make([][]bool, n),
		JobFinished:      make([][]bool, n),
		OpeStep:          make([][]OpID, n),
		Appertain:        make([][]JobID, n),
		OpeBiases:        make([][]OpID, n),
		EndBiases:        make([][]OpID, n),
		NumsOpes:         make([]int, n),
	}
	for i, st := range e.instances {
		s.Appertain[i] = st.data.appertain
		s.OpeBiases[i] = st.data.opeBiases
		s.EndBiases[i] = st.data.endBiases
		s.NumsOpes[i] = st.data.numOps
	}
	s.update(e)
	return s
}

// update rebinds only the dynamic fields; static layout slices stay put.
func (s *State) update(e *Env) {
	s.ActiveIdxs = append(s.ActiveIdxs[:0], e.activeIdxs...)
	for i, st := range e.instances {
		s.Clock[i] = st.clock
		s.Done[i] = st.done
		s.OpScheduled[i] = st.opScheduled
		s.OpNumEligible[i] = st.opNumEligible
		s.OpProcTime[i] = st.opProcTime
		s.OpJobUnscheduled[i] = st.opJobUnscheduled
		s.OpJobCompletion[i] = st.opJobCompletion
		s.OpStart[i] = st.opStart
		s.ProcTimes[i] = st.procTimes
		s.Eligible[i] = st.eligible
		s.MaNumEligible[i] = st.maNumEligible
		s.MaAvailable[i] = st.maAvailable
		s.MaUtilization[i] = st.maUtilization
		s.MaIdle[i] = st.maIdle
		s.JobProcing[i] = st.jobProcing
		s.JobFinished[i] = st.jobFinished
		s.OpeStep[i] = st.opeStep
	}
}

// NumInstances is the batch size, finished slots included.
func (s *State) NumInstances() int {
	return len(s.Clock)
}

// NumMachines reports the machine count of one batch slot.
func (s *State) NumMachines(idx int) int {
	return len(s.MaIdle[idx])
}

// NumJobs reports the job count of one batch slot.
func (s *State) NumJobs(idx int) int {
	return len(s.OpeStep[idx])
}
