// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Phase is the driver's position in its run.
type Phase int

const (
	PhaseThermalizing Phase = iota
	PhaseMeasuring
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseThermalizing:
		return "thermalizing"
	case PhaseMeasuring:
		return "measuring"
	default:
		return "done"
	}
}

// progressChunks is how many progress entries each phase emits at debug level.
const progressChunks = 10

// RunResult is what a finished run hands to its caller: the final
// configuration and the sampled count series.
type RunResult struct {
	Params     RunParams
	Seed       int64
	Activity   float64
	Grid       [][]CellMark
	Particles  []Particle
	Horizontal []int // N+ per sample
	Vertical   []int // N− per sample
	Stats      MoveStats
	Elapsed    time.Duration
}

// Simulator is the GCMC driver. It owns the lattice, the kernel and the
// observable log of one run.
type Simulator struct {
	Params  RunParams
	Seed    int64
	Lattice *Lattice
	Log     *ObservableLog

	kernel  *Kernel
	phase   Phase
	elapsed time.Duration
	logger  *logrus.Entry
}

// NewSimulator validates params and builds an empty lattice. The run's moves
// are drawn from a generator seeded with seed.
func NewSimulator(params RunParams, seed int64) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		Params:  params,
		Seed:    seed,
		Lattice: NewLattice(params.GridSize, params.RodLength),
		Log:     NewObservableLog(params.ExpectedSamples()),
		kernel:  NewKernel(params.Activity, NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemMoves)),
		phase:   PhaseThermalizing,
		logger:  logrus.WithField("activity", params.Activity),
	}, nil
}

// Execute builds a simulator, runs it to completion and returns its result.
func Execute(params RunParams, seed int64) (*RunResult, error) {
	s, err := NewSimulator(params, seed)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Phase returns the current phase.
func (s *Simulator) Phase() Phase { return s.phase }

// Stats returns the move counters accumulated so far.
func (s *Simulator) Stats() MoveStats { return s.kernel.Stats }

// Run executes the remaining phases and returns the result. The lattice is
// carried from thermalization into measurement unchanged.
func (s *Simulator) Run() *RunResult {
	start := time.Now()
	if s.phase == PhaseThermalizing {
		s.thermalize()
	}
	if s.phase == PhaseMeasuring {
		s.measure()
	}
	s.elapsed += time.Since(start)

	st := s.kernel.Stats
	s.logger.WithFields(logrus.Fields{
		"n_horizontal": s.Lattice.NHorizontal(),
		"n_vertical":   s.Lattice.NVertical(),
		"samples":      s.Log.Len(),
		"insert_ratio": fmt.Sprintf("%.4f", st.InsertRatio()),
		"delete_ratio": fmt.Sprintf("%.4f", st.DeleteRatio()),
	}).Infof("Run finished in %v", s.elapsed)
	return s.Result()
}

func (s *Simulator) thermalize() {
	total := s.Params.ThermalizationSteps
	every := progressEvery(total)
	for i := int64(0); i < total; i++ {
		s.kernel.Step(s.Lattice)
		if every > 0 && (i+1)%every == 0 {
			s.reportProgress(i+1, total)
		}
	}
	s.phase = PhaseMeasuring
	s.logger.Debugf("Thermalization finished after %d steps (N=%d)", total, s.Lattice.N())
}

func (s *Simulator) measure() {
	total := s.Params.MeasurementSteps
	interval := s.Params.SampleInterval
	every := progressEvery(total)
	for i := int64(0); i < total; i++ {
		s.kernel.Step(s.Lattice)
		if i%interval == 0 {
			s.Log.Record(i, s.Lattice)
		}
		if every > 0 && (i+1)%every == 0 {
			s.reportProgress(i+1, total)
		}
	}
	s.phase = PhaseDone
}

func (s *Simulator) reportProgress(done, total int64) {
	s.logger.WithField("phase", s.phase.String()).
		Debugf("%.0f%% (%d/%d steps, N=%d)", 100*float64(done)/float64(total), done, total, s.Lattice.N())
}

// Result snapshots the current state. It is valid in any phase; after Run it
// holds the final configuration.
func (s *Simulator) Result() *RunResult {
	return &RunResult{
		Params:     s.Params,
		Seed:       s.Seed,
		Activity:   s.Params.Activity,
		Grid:       s.Lattice.Snapshot(),
		Particles:  s.Lattice.Particles(),
		Horizontal: s.Log.Horizontal(),
		Vertical:   s.Log.Vertical(),
		Stats:      s.kernel.Stats,
		Elapsed:    s.elapsed,
	}
}

func progressEvery(total int64) int64 {
	if total < progressChunks {
		return 0
	}
	return total / progressChunks
}
