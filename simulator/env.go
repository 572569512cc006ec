package simulator

import (
	"context"
	"fmt"
	"sync"

	"FJS-go/util"
)

// Env drives a batch of independent FJSP instances in lock-step. Each round
// the caller supplies one decision per active instance (in ActiveIdxs
// order); Env applies them, advances every stalled instance's clock to its
// next machine-availability event and republishes the state snapshot.
//
// Env is not safe for concurrent use; the batch parallelism lives inside a
// round, across disjoint instance slots.
type Env struct {
	opts       *Options
	instances  []*runState
	initial    []*runState // construction-time checkpoint, never mutated
	activeIdxs []int
	state      *State
	logger     *Logger
	loggerCtx  context.Context
	round      int
}

// NewEnv builds the batch from loaded instances. Slot i keeps instances[i]
// for the whole run; finished slots stay queryable.
func NewEnv(instances []*Instance, setOpts ...SetOption) (*Env, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrMalformedInstance)
	}
	opts := defaultOptions()
	for _, setOpt := range setOpts {
		setOpt(opts)
	}

	e := &Env{
		opts:      opts,
		instances: make([]*runState, len(instances)),
		initial:   make([]*runState, len(instances)),
		loggerCtx: context.Background(),
	}
	for i, ins := range instances {
		if ins == nil {
			return nil, fmt.Errorf("%w: batch slot %d is nil", ErrMalformedInstance, i)
		}
		pristine := newRunState(i, ins)
		e.initial[i] = pristine
		e.instances[i] = pristine.clone()
	}
	e.logger = NewLogger(e.loggerCtx, opts.logEnabled, opts.logDirPath)
	e.recomputeActive()
	e.state = newState(e)
	return e, nil
}

// State returns the current snapshot. The same value is refreshed in place
// each round; see the State doc for the aliasing contract.
func (e *Env) State() *State {
	return e.state
}

// ActiveIdxs returns the slots still requiring decisions, in Step order.
func (e *Env) ActiveIdxs() []int {
	return append([]int(nil), e.activeIdxs...)
}

// Done reports whether every instance in the batch is fully scheduled.
func (e *Env) Done() bool {
	return len(e.activeIdxs) == 0
}

// Round is the number of completed decision rounds since construction or
// the last Reset.
func (e *Env) Round() int {
	return e.round
}

// Step applies one decision per active instance, in ActiveIdxs order, then
// runs the time-advance loop and recomputes the active set. The returned
// rewards and done flags are indexed by batch slot; an instance that
// received no decision this round has reward 0.
//
// A decision violating the preconditions rejects the whole round with an
// error wrapping ErrIllegalDecision, before any instance is mutated.
func (e *Env) Step(decisions []Decision) (*State, []Duration, []bool, error) {
	if len(decisions) != len(e.activeIdxs) {
		return nil, nil, nil, fmt.Errorf("%w: got %d decisions for %d active instances",
			ErrIllegalDecision, len(decisions), len(e.activeIdxs))
	}
	// reject-before-mutate keeps the round atomic
	for i, idx := range e.activeIdxs {
		if err := e.instances[idx].checkDecision(decisions[i]); err != nil {
			return nil, nil, nil, err
		}
	}

	// recomputeActive reuses the backing array, so the round keeps a copy
	roundIdxs := append([]int(nil), e.activeIdxs...)
	if e.opts.parallel {
		wg := &sync.WaitGroup{}
		for i := range roundIdxs {
			util.GoWithWG(wg, i, func(i int) {
				st := e.instances[roundIdxs[i]]
				st.apply(decisions[i])
				st.advance()
			})
		}
		wg.Wait()
	} else {
		for i, idx := range roundIdxs {
			st := e.instances[idx]
			st.apply(decisions[i])
			st.advance()
		}
	}

	rewards := make([]Duration, len(e.instances))
	done := make([]bool, len(e.instances))
	for _, idx := range roundIdxs {
		rewards[idx] = e.instances[idx].reward
	}
	for i, st := range e.instances {
		done[i] = st.done
	}

	e.round++
	e.recomputeActive()
	e.state.update(e)
	e.logger.ReceiveRound(e.round, roundIdxs, decisions, rewards)
	return e.state, rewards, done, nil
}

// Reset restores every slot from the construction-time checkpoint. The
// resulting state is identical to a freshly constructed batch from the same
// instances.
func (e *Env) Reset() *State {
	for i, pristine := range e.initial {
		e.instances[i] = pristine.clone()
	}
	e.round = 0
	e.recomputeActive()
	e.state.update(e)
	return e.state
}

func (e *Env) recomputeActive() {
	e.activeIdxs = e.activeIdxs[:0]
	for i, st := range e.instances {
		if st.scheduledCount < st.data.numOps {
			e.activeIdxs = append(e.activeIdxs, i)
		}
	}
}

// NumInstances is the batch size.
func (e *Env) NumInstances() int {
	return len(e.instances)
}

// Instance returns the static definition behind one batch slot.
func (e *Env) Instance(idx int) *Instance {
	return e.instances[idx].data
}

// Clock is the current simulated time of one slot.
func (e *Env) Clock(idx int) Time {
	return e.instances[idx].clock
}

// Makespan is the slot's current makespan baseline: estimated while the
// instance is active, actual once it is done.
func (e *Env) Makespan(idx int) Time {
	return e.instances[idx].makespan
}

// Schedule copies the slot's schedule entries, one per operation.
func (e *Env) Schedule(idx int) []ScheduleEntry {
	return append([]ScheduleEntry(nil), e.instances[idx].entries...)
}

// Utilizations copies the slot's per-machine utilization features.
func (e *Env) Utilizations(idx int) []float64 {
	return append([]float64(nil), e.instances[idx].maUtilization...)
}

// LogSummary forwards a run summary line to the trace logger.
func (e *Env) LogSummary(summary string) {
	e.logger.ReceiveSummary(summary)
}
