package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseGeneratorDeterministicBySeed(t *testing.T) {
	a := NewCaseGenerator(5, 3, 7).GenerateLines()
	b := NewCaseGenerator(5, 3, 7).GenerateLines()
	assert.Equal(t, a, b)

	c := NewCaseGenerator(5, 3, 8).GenerateLines()
	assert.NotEqual(t, a, c)
}

func TestCaseGeneratorProducesLoadableCases(t *testing.T) {
	gen := NewCaseGenerator(6, 4, 1)
	for i := 0; i < 5; i++ {
		ins, err := gen.Generate("gen")
		require.NoError(t, err)
		assert.Equal(t, 6, ins.NumJobs())
		assert.Equal(t, 4, ins.NumMachines())
		for q := 0; q < ins.NumOps(); q++ {
			count := ins.EligibleCount(OpID(q))
			assert.GreaterOrEqual(t, count, 1)
			assert.LessOrEqual(t, count, 4)
		}
	}
}

func TestCaseGeneratorHonorsOptions(t *testing.T) {
	gen := NewCaseGenerator(4, 3, 11,
		WithCaseOpesPerJob(2, 2),
		WithCaseMasPerOpe(1, 1),
		WithCaseProcTime(5, 5))
	ins, err := gen.Generate("fixed")
	require.NoError(t, err)

	assert.Equal(t, 8, ins.NumOps())
	for j := 0; j < ins.NumJobs(); j++ {
		assert.Equal(t, 2, ins.NumOpsOf(JobID(j)))
	}
	for q := 0; q < ins.NumOps(); q++ {
		assert.Equal(t, 1, ins.EligibleCount(OpID(q)))
		for k := 0; k < ins.NumMachines(); k++ {
			if d := ins.ProcTime(OpID(q), MachineID(k)); d != 0 {
				assert.Equal(t, Duration(5), d)
			}
		}
	}
}

func TestCaseGeneratorRunsToCompletion(t *testing.T) {
	gen := NewCaseGenerator(3, 2, 21)
	ins, err := gen.Generate("run")
	require.NoError(t, err)
	e, err := NewEnv([]*Instance{ins})
	require.NoError(t, err)

	state := e.State()
	for !e.Done() {
		// greedy first-eligible play, enough to exercise the engine
		decisions := make([]Decision, 0, len(state.ActiveIdxs))
		for _, idx := range state.ActiveIdxs {
			decisions = append(decisions, firstEligible(t, state, idx))
		}
		var stepErr error
		state, _, _, stepErr = e.Step(decisions)
		require.NoError(t, stepErr)
	}
	for _, v := range e.Validate() {
		assert.True(t, v.Passed, v.String())
	}
}

func firstEligible(t *testing.T, s *State, idx int) Decision {
	t.Helper()
	for j := 0; j < s.NumJobs(idx); j++ {
		if s.JobProcing[idx][j] || s.JobFinished[idx][j] {
			continue
		}
		op := s.OpeStep[idx][j]
		for m := 0; m < s.NumMachines(idx); m++ {
			if s.MaIdle[idx][m] && s.ProcTimes[idx][op][m] > 0 {
				return Decision{Op: op, Machine: MachineID(m), Job: JobID(j)}
			}
		}
	}
	t.Fatalf("no eligible pairing for active instance %d", idx)
	return Decision{}
}
