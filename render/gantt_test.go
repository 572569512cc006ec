package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FJS-go/dispatch"
	"FJS-go/simulator"
)

func TestGanttRendersFinishedSchedule(t *testing.T) {
	ins, err := simulator.NewInstance("chart", 2, [][][]simulator.Arc{
		{
			{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 5}},
			{{Machine: 0, Duration: 4}, {Machine: 1, Duration: 2}},
		},
		{
			{{Machine: 0, Duration: 2}, {Machine: 1, Duration: 6}},
		},
	})
	require.NoError(t, err)
	e, err := simulator.NewEnv([]*simulator.Instance{ins})
	require.NoError(t, err)

	rule := dispatch.NewSPTRule()
	state := e.State()
	for !e.Done() {
		var stepErr error
		state, _, _, stepErr = e.Step(rule.Decide(state))
		require.NoError(t, stepErr)
	}

	chart := Gantt(e, 0)
	assert.Contains(t, chart, "chart")
	assert.Contains(t, chart, "makespan=")
	// one row per machine
	assert.Contains(t, chart, "m0")
	assert.Contains(t, chart, "m1")
	assert.GreaterOrEqual(t, strings.Count(chart, "\n"), 3)
}

func TestGanttEmptySchedule(t *testing.T) {
	ins, err := simulator.NewInstance("idle", 1, [][][]simulator.Arc{
		{{{Machine: 0, Duration: 1}}},
	})
	require.NoError(t, err)
	e, err := simulator.NewEnv([]*simulator.Instance{ins})
	require.NoError(t, err)

	// nothing scheduled yet, but the makespan estimate is positive, so the
	// chart renders without blocks for unscheduled operations
	chart := Gantt(e, 0)
	assert.Contains(t, chart, "idle")
}
