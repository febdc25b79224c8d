package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every RunParams validation failure.
var ErrInvalidConfig = errors.New("invalid run configuration")

// RunParams groups the immutable parameters of one GCMC run.
type RunParams struct {
	Activity            float64 `yaml:"activity" json:"activity"`                         // z, must be finite and > 0
	GridSize            int     `yaml:"grid_size" json:"grid_size"`                       // M, lattice is M×M
	RodLength           int     `yaml:"rod_length" json:"rod_length"`                     // L, 1 ≤ L ≤ M
	ThermalizationSteps int64   `yaml:"thermalization_steps" json:"thermalization_steps"` // discarded steps before sampling
	MeasurementSteps    int64   `yaml:"measurement_steps" json:"measurement_steps"`       // steps during which samples are taken
	SampleInterval      int64   `yaml:"sample_interval" json:"sample_interval"`           // delta_N, steps between samples
}

// DefaultRunParams describes the reference system: a 64×64 lattice
// with rods of length 8.
func DefaultRunParams() RunParams {
	return RunParams{
		Activity:            1.0,
		GridSize:            64,
		RodLength:           8,
		ThermalizationSteps: 1,
		MeasurementSteps:    100000,
		SampleInterval:      1000,
	}
}

// Validate checks every field and returns an error wrapping ErrInvalidConfig
// on the first violation. Values are never clamped.
func (p RunParams) Validate() error {
	if math.IsNaN(p.Activity) || math.IsInf(p.Activity, 0) {
		return fmt.Errorf("%w: activity must be a finite number, got %f", ErrInvalidConfig, p.Activity)
	}
	if p.Activity <= 0 {
		return fmt.Errorf("%w: activity must be positive, got %g", ErrInvalidConfig, p.Activity)
	}
	if p.GridSize <= 0 {
		return fmt.Errorf("%w: grid_size must be positive, got %d", ErrInvalidConfig, p.GridSize)
	}
	if p.RodLength <= 0 {
		return fmt.Errorf("%w: rod_length must be positive, got %d", ErrInvalidConfig, p.RodLength)
	}
	if p.RodLength > p.GridSize {
		return fmt.Errorf("%w: rod_length %d exceeds grid_size %d", ErrInvalidConfig, p.RodLength, p.GridSize)
	}
	if p.ThermalizationSteps < 0 {
		return fmt.Errorf("%w: thermalization_steps must be non-negative, got %d", ErrInvalidConfig, p.ThermalizationSteps)
	}
	if p.MeasurementSteps < 0 {
		return fmt.Errorf("%w: measurement_steps must be non-negative, got %d", ErrInvalidConfig, p.MeasurementSteps)
	}
	if p.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample_interval must be positive, got %d", ErrInvalidConfig, p.SampleInterval)
	}
	return nil
}

// ExpectedSamples returns how many entries the observable log holds after
// the measurement phase: ceil(MeasurementSteps / SampleInterval).
func (p RunParams) ExpectedSamples() int {
	if p.SampleInterval <= 0 || p.MeasurementSteps <= 0 {
		return 0
	}
	return int((p.MeasurementSteps + p.SampleInterval - 1) / p.SampleInterval)
}
