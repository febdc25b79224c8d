package sweep

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodlattice/rodsim/sim"
)

func smallParams(zs ...float64) []sim.RunParams {
	out := make([]sim.RunParams, len(zs))
	for i, z := range zs {
		out[i] = sim.RunParams{Activity: z, GridSize: 8, RodLength: 2,
			ThermalizationSteps: 200, MeasurementSteps: 500, SampleInterval: 50}
	}
	return out
}

func TestRunner_ResultsOrderedByActivity(t *testing.T) {
	// GIVEN activities listed out of order
	tasks := PlanTasks(smallParams(1.5, 0.05, 0.56, 0.25), 42)

	// WHEN the sweep runs with several workers
	res := NewRunner(3).Execute(tasks)

	// THEN outcomes come back sorted by activity, all successful
	require.Len(t, res.Outcomes, 4)
	var zs []float64
	for _, o := range res.Outcomes {
		require.NoError(t, o.Err)
		require.NotNil(t, o.Result)
		assert.Equal(t, o.Activity, o.Result.Activity)
		assert.Len(t, o.Result.Horizontal, 10)
		zs = append(zs, o.Activity)
	}
	assert.Equal(t, []float64{0.05, 0.25, 0.56, 1.5}, zs)
	assert.NoError(t, res.Err())
}

func TestRunner_FailureIsIsolated(t *testing.T) {
	// GIVEN a run function that fails for one activity and panics for another
	runner := NewRunner(2)
	runner.Run = func(p sim.RunParams, seed int64) (*sim.RunResult, error) {
		switch p.Activity {
		case 0.25:
			return nil, errors.New("disk on fire")
		case 0.86:
			panic("index out of range")
		}
		return sim.Execute(p, seed)
	}
	var completed atomic.Int32
	runner.OnComplete = func(Outcome) { completed.Add(1) }

	// WHEN the sweep runs
	res := runner.Execute(PlanTasks(smallParams(0.05, 0.25, 0.86, 1.1), 7))

	// THEN the other activities still succeed
	assert.Equal(t, int32(4), completed.Load())
	assert.Len(t, res.Succeeded(), 2)
	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 0.25, failed[0].Activity)
	assert.Contains(t, failed[0].Err.Error(), "activity 0.25")
	assert.Contains(t, failed[0].Err.Error(), "disk on fire")
	assert.Equal(t, 0.86, failed[1].Activity)
	assert.Contains(t, failed[1].Err.Error(), "panicked")

	// AND the joined error names both activities
	err := res.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.25")
	assert.Contains(t, err.Error(), "0.86")
}

func TestRunner_InvalidParamsSurfaceAsOutcomeError(t *testing.T) {
	params := smallParams(0.5)
	params[0].RodLength = 99

	res := NewRunner(1).Execute(PlanTasks(params, 1))

	require.Len(t, res.Failed(), 1)
	assert.ErrorIs(t, res.Outcomes[0].Err, sim.ErrInvalidConfig)
}

func TestRunner_MatchesSequentialExecution(t *testing.T) {
	// GIVEN the same tasks run in parallel and one by one
	tasks := PlanTasks(smallParams(0.125, 0.56, 1.15), 99)
	parallel := NewRunner(3).Execute(tasks)

	for _, task := range tasks {
		want, err := sim.Execute(task.Params, task.Seed)
		require.NoError(t, err)
		got, ok := parallel.Get(task.Params.Activity)
		require.True(t, ok)

		// THEN every run is identical: no shared state between tasks
		if diff := cmp.Diff(want.Particles, got.Result.Particles); diff != "" {
			t.Errorf("z=%g particles differ:\n%s", task.Params.Activity, diff)
		}
		if diff := cmp.Diff(want.Horizontal, got.Result.Horizontal); diff != "" {
			t.Errorf("z=%g N+ differs:\n%s", task.Params.Activity, diff)
		}
	}
}

func TestPlanTasks_SeedsDependOnActivityOnly(t *testing.T) {
	a := PlanTasks(smallParams(0.05, 0.56), 42)
	b := PlanTasks(smallParams(0.56, 1.5, 0.05), 42)

	assert.NotEqual(t, a[0].Seed, a[1].Seed)
	assert.Equal(t, a[0].Seed, b[2].Seed)
	assert.Equal(t, a[1].Seed, b[0].Seed)

	c := PlanTasks(smallParams(0.05), 43)
	assert.NotEqual(t, a[0].Seed, c[0].Seed)
}

func TestResults_GetMissing(t *testing.T) {
	res := &Results{Outcomes: []Outcome{{Activity: 0.1}, {Activity: 0.3}}}

	_, ok := res.Get(0.2)
	assert.False(t, ok)
	o, ok := res.Get(0.3)
	assert.True(t, ok)
	assert.Equal(t, 0.3, o.Activity)
}
