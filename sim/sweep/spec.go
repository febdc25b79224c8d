package sweep

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rodlattice/rodsim/sim"
)

// SweepSpec is the top-level sweep configuration: one lattice geometry and
// a list of activities, each with its own step budget.
// Loaded from YAML via LoadSweepSpec(path).
type SweepSpec struct {
	Seed      int64     `yaml:"seed"`
	GridSize  int       `yaml:"grid_size"`
	RodLength int       `yaml:"rod_length"`
	Workers   int       `yaml:"workers,omitempty"` // 0 = one per CPU
	Defaults  StepSpec  `yaml:"defaults,omitempty"`
	Runs      []RunSpec `yaml:"runs"`
}

// StepSpec holds step budgets. Nil fields fall back to the sweep defaults.
type StepSpec struct {
	ThermalizationSteps *int64 `yaml:"thermalization_steps,omitempty"`
	MeasurementSteps    *int64 `yaml:"measurement_steps,omitempty"`
	SampleInterval      *int64 `yaml:"sample_interval,omitempty"`
}

// RunSpec configures the run at one activity.
type RunSpec struct {
	Activity float64 `yaml:"activity"`
	StepSpec `yaml:",inline"`
}

// LoadSweepSpec reads and parses a YAML sweep specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSweepSpec(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep spec: %w", err)
	}
	var spec SweepSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing sweep spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the sweep-level fields and every resolved run.
func (s *SweepSpec) Validate() error {
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if len(s.Runs) == 0 {
		return fmt.Errorf("at least one run required")
	}
	seen := make(map[float64]int, len(s.Runs))
	for i, r := range s.Runs {
		if j, dup := seen[r.Activity]; dup {
			return fmt.Errorf("runs[%d]: activity %g already used by runs[%d]", i, r.Activity, j)
		}
		seen[r.Activity] = i
		if err := s.resolve(r).Validate(); err != nil {
			return fmt.Errorf("runs[%d]: %w", i, err)
		}
	}
	return nil
}

// RunParams resolves every run against the sweep defaults, in file order.
func (s *SweepSpec) RunParams() ([]sim.RunParams, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := make([]sim.RunParams, len(s.Runs))
	for i, r := range s.Runs {
		out[i] = s.resolve(r)
	}
	return out, nil
}

func (s *SweepSpec) resolve(r RunSpec) sim.RunParams {
	return sim.RunParams{
		Activity:            r.Activity,
		GridSize:            s.GridSize,
		RodLength:           s.RodLength,
		ThermalizationSteps: pick(r.ThermalizationSteps, s.Defaults.ThermalizationSteps),
		MeasurementSteps:    pick(r.MeasurementSteps, s.Defaults.MeasurementSteps),
		SampleInterval:      pick(r.SampleInterval, s.Defaults.SampleInterval),
	}
}

// pick returns the run value, else the default, else 0.
func pick(v, fallback *int64) int64 {
	if v != nil {
		return *v
	}
	if fallback != nil {
		return *fallback
	}
	return 0
}
