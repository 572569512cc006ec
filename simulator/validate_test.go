package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scheduledRunState hand-builds a complete, consistent schedule for the
// flat instance: machine 0 runs ops 0 and 2, machine 1 runs ops 1 and 3.
func scheduledRunState(t *testing.T) *runState {
	t.Helper()
	st := newRunState(0, flatInstance(t))
	set := func(op OpID, ma MachineID, start, end Time) {
		st.entries[op] = ScheduleEntry{Scheduled: true, Machine: ma, Start: start, End: end}
	}
	set(0, 0, 0, 3)
	set(1, 1, 3, 5)
	set(2, 0, 3, 5)
	set(3, 1, 5, 8)
	return st
}

func TestValidateAcceptsConsistentSchedule(t *testing.T) {
	v := validateRun(scheduledRunState(t))
	assert.True(t, v.Passed, v.String())
	assert.Zero(t, v.MachineOverlaps)
	assert.Zero(t, v.WrongDurations)
	assert.Zero(t, v.JobOrderBreaks)
	assert.Zero(t, v.Unscheduled)
}

func TestValidateCountsMachineOverlaps(t *testing.T) {
	st := scheduledRunState(t)
	// op 0 holds machine 0 until 3; pulling op 2 forward collides
	st.entries[2].Start = 2
	st.entries[2].End = 4
	v := validateRun(st)
	assert.False(t, v.Passed)
	assert.Equal(t, 1, v.MachineOverlaps)
	assert.Zero(t, v.WrongDurations)
}

func TestValidateCountsWrongDurations(t *testing.T) {
	st := scheduledRunState(t)
	st.entries[3].End = 10
	v := validateRun(st)
	assert.False(t, v.Passed)
	assert.Equal(t, 1, v.WrongDurations)
}

func TestValidateCountsJobOrderBreaks(t *testing.T) {
	st := scheduledRunState(t)
	// job 0's second op starts before its first op ends
	st.entries[1].Start = 2
	st.entries[1].End = 4
	v := validateRun(st)
	assert.False(t, v.Passed)
	assert.Equal(t, 1, v.JobOrderBreaks)
	assert.Zero(t, v.MachineOverlaps)
}

func TestValidateCountsUnscheduled(t *testing.T) {
	st := scheduledRunState(t)
	st.entries[1].Scheduled = false
	v := validateRun(st)
	assert.False(t, v.Passed)
	assert.Equal(t, 1, v.Unscheduled)
}

func TestValidateOverEnv(t *testing.T) {
	e, err := NewEnv([]*Instance{flatInstance(t)})
	require.NoError(t, err)

	// a fresh batch fails completeness only
	v := e.ValidateInstance(0)
	assert.False(t, v.Passed)
	assert.Equal(t, 4, v.Unscheduled)
	assert.Zero(t, v.MachineOverlaps)
}
