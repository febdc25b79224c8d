package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() RunParams {
	return RunParams{
		Activity:            1.0,
		GridSize:            8,
		RodLength:           2,
		ThermalizationSteps: 0,
		MeasurementSteps:    1000,
		SampleInterval:      100,
	}
}

func TestRunParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *RunParams)
		errMsg string
	}{
		{"valid", func(p *RunParams) {}, ""},
		{"zero grid", func(p *RunParams) { p.GridSize = 0 }, "grid_size"},
		{"negative grid", func(p *RunParams) { p.GridSize = -4 }, "grid_size"},
		{"zero rod", func(p *RunParams) { p.RodLength = 0 }, "rod_length"},
		{"rod longer than grid", func(p *RunParams) { p.RodLength = 9 }, "exceeds grid_size"},
		{"rod equal to grid", func(p *RunParams) { p.RodLength = 8 }, ""},
		{"zero activity", func(p *RunParams) { p.Activity = 0 }, "activity"},
		{"negative activity", func(p *RunParams) { p.Activity = -0.5 }, "activity"},
		{"NaN activity", func(p *RunParams) { p.Activity = math.NaN() }, "finite"},
		{"Inf activity", func(p *RunParams) { p.Activity = math.Inf(1) }, "finite"},
		{"negative therm", func(p *RunParams) { p.ThermalizationSteps = -1 }, "thermalization_steps"},
		{"negative measure", func(p *RunParams) { p.MeasurementSteps = -1 }, "measurement_steps"},
		{"zero interval", func(p *RunParams) { p.SampleInterval = 0 }, "sample_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewSimulator_InvalidConfigFailsFast(t *testing.T) {
	p := validParams()
	p.RodLength = 20

	s, err := NewSimulator(p, 1)

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunParams_ExpectedSamples(t *testing.T) {
	p := validParams()
	assert.Equal(t, 10, p.ExpectedSamples())
	p.MeasurementSteps = 1001
	assert.Equal(t, 11, p.ExpectedSamples())
	p.MeasurementSteps = 0
	assert.Equal(t, 0, p.ExpectedSamples())
}

func TestDefaultRunParams_Valid(t *testing.T) {
	assert.NoError(t, DefaultRunParams().Validate())
}
