// Package sweep runs independent GCMC simulations over a list of activities
// in parallel and collects their results keyed by activity.
//
// Runs share no mutable state: each task gets its own RunParams and a seed
// derived from the sweep's master seed, and builds its own lattice and RNG.
// A failing task (error or panic) is recorded against its activity; the other
// tasks still complete.
package sweep

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rodlattice/rodsim/sim"
)

// RunFunc executes one run. sim.Execute is the production implementation.
type RunFunc func(params sim.RunParams, seed int64) (*sim.RunResult, error)

// Task is one scheduled run.
type Task struct {
	Params sim.RunParams
	Seed   int64
}

// Outcome is the result of one task: exactly one of Result and Err is set.
type Outcome struct {
	Activity float64
	Seed     int64
	Result   *sim.RunResult
	Err      error
}

// Results holds every outcome ordered by increasing activity.
type Results struct {
	Outcomes []Outcome
}

// Get returns the outcome for activity z.
func (r *Results) Get(z float64) (Outcome, bool) {
	i := sort.Search(len(r.Outcomes), func(i int) bool { return r.Outcomes[i].Activity >= z })
	if i < len(r.Outcomes) && r.Outcomes[i].Activity == z {
		return r.Outcomes[i], true
	}
	return Outcome{}, false
}

// Succeeded returns the results of the runs that completed, by activity.
func (r *Results) Succeeded() []*sim.RunResult {
	var out []*sim.RunResult
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failed returns the outcomes of the runs that did not complete.
func (r *Results) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the errors of all failed runs, or returns nil.
func (r *Results) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, o.Err)
	}
	return errors.Join(errs...)
}

// PlanTasks assigns each run a seed derived from masterSeed and its activity,
// so adding or removing activities never changes another run's stream.
func PlanTasks(params []sim.RunParams, masterSeed int64) []Task {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(masterSeed))
	tasks := make([]Task, len(params))
	for i, p := range params {
		tasks[i] = Task{Params: p, Seed: rng.SeedFor(sim.SubsystemActivity(p.Activity))}
	}
	return tasks
}

// Runner executes tasks with bounded parallelism.
type Runner struct {
	// Workers caps concurrent runs; 0 means runtime.NumCPU().
	Workers int
	// Run executes a single task; defaults to sim.Execute.
	Run RunFunc
	// OnComplete, if set, is called once per task as it finishes.
	// Calls are serialized.
	OnComplete func(Outcome)
}

// NewRunner returns a Runner using sim.Execute.
func NewRunner(workers int) *Runner {
	return &Runner{Workers: workers, Run: sim.Execute}
}

// Execute runs every task and waits for all of them. It never returns early
// because of a failed task.
func (r *Runner) Execute(tasks []Task) *Results {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	run := r.Run
	if run == nil {
		run = sim.Execute
	}

	logrus.Infof("Sweeping %d activities (%d workers)", len(tasks), workers)
	start := time.Now()

	outcomes := make([]Outcome, len(tasks))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			out := runOne(run, task)
			outcomes[i] = out
			if out.Err != nil {
				logrus.WithField("activity", out.Activity).Errorf("Run failed: %v", out.Err)
			}
			if r.OnComplete != nil {
				mu.Lock()
				r.OnComplete(out)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].Activity < outcomes[j].Activity })
	res := &Results{Outcomes: outcomes}
	logrus.Infof("Sweep finished in %v: %d succeeded, %d failed",
		time.Since(start), len(res.Succeeded()), len(res.Failed()))
	return res
}

// runOne executes a task, converting a panic into an error for that activity.
func runOne(run RunFunc, task Task) (out Outcome) {
	out = Outcome{Activity: task.Params.Activity, Seed: task.Seed}
	defer func() {
		if rec := recover(); rec != nil {
			out.Result = nil
			out.Err = fmt.Errorf("activity %g: run panicked: %v", task.Params.Activity, rec)
		}
	}()
	res, err := run(task.Params, task.Seed)
	if err != nil {
		out.Err = fmt.Errorf("activity %g: %w", task.Params.Activity, err)
		return out
	}
	out.Result = res
	return out
}
