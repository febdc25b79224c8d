// Package analysis derives the physical observables of a run from its count
// series: the nematic order parameter S = (N+ − N−)/(N+ + N−) and the
// packing density η = L·N/M², with block-scaled error estimates.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OrderParameter returns (nh − nv)/(nh + nv), or 0 for an empty lattice.
func OrderParameter(nh, nv int) float64 {
	n := nh + nv
	if n == 0 {
		return 0
	}
	return float64(nh-nv) / float64(n)
}

// PackingDensity returns the covered fraction of an M×M lattice holding n
// rods of length L.
func PackingDensity(n, rodLength, gridSize int) float64 {
	return float64(rodLength*n) / float64(gridSize*gridSize)
}

// OrderSeries maps paired count series to S per sample.
func OrderSeries(horizontal, vertical []int) []float64 {
	out := make([]float64, len(horizontal))
	for i := range horizontal {
		out[i] = OrderParameter(horizontal[i], vertical[i])
	}
	return out
}

// DensitySeries maps paired count series to η per sample.
func DensitySeries(horizontal, vertical []int, rodLength, gridSize int) []float64 {
	out := make([]float64, len(horizontal))
	for i := range horizontal {
		out[i] = PackingDensity(horizontal[i]+vertical[i], rodLength, gridSize)
	}
	return out
}

// ErrorOptions controls MeanError. Consecutive samples are correlated, so the
// standard deviation is divided by sqrt(n/BlockSize) rather than sqrt(n), and
// scaled by Scale to give a conservative bar.
type ErrorOptions struct {
	Scale     float64
	BlockSize int
}

// DefaultErrorOptions returns k=5 with blocks of 1000 samples.
func DefaultErrorOptions() ErrorOptions {
	return ErrorOptions{Scale: 5, BlockSize: 1000}
}

// MeanError returns the mean of values and Scale·σ/sqrt(n/BlockSize), with σ
// the population standard deviation.
func MeanError(values []float64, opts ErrorOptions) (mean, errBar float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	block := opts.BlockSize
	if block <= 0 {
		block = 1
	}
	return mean, opts.Scale * std / math.Sqrt(float64(len(values))/float64(block))
}

// Summary holds the per-activity averages reported by `rodsim analyze`.
type Summary struct {
	Activity       float64 `json:"activity"`
	Samples        int     `json:"samples"`
	MeanHorizontal float64 `json:"mean_n_horizontal"`
	MeanVertical   float64 `json:"mean_n_vertical"`
	MeanN          float64 `json:"mean_n"`
	MeanOrder      float64 `json:"mean_s"`
	MeanAbsOrder   float64 `json:"mean_abs_s"`
	AbsOrderError  float64 `json:"abs_s_error"`
	MeanDensity    float64 `json:"mean_eta"`
	DensityError   float64 `json:"eta_error"`
}

// Summarize averages the series of one run.
func Summarize(z float64, horizontal, vertical []int, rodLength, gridSize int, opts ErrorOptions) (Summary, error) {
	if len(horizontal) != len(vertical) {
		return Summary{}, fmt.Errorf("series length mismatch: %d vs %d", len(horizontal), len(vertical))
	}
	if len(horizontal) == 0 {
		return Summary{}, fmt.Errorf("activity %g: no samples", z)
	}
	if rodLength <= 0 || gridSize <= 0 {
		return Summary{}, fmt.Errorf("rod length and grid size must be positive, got %d and %d", rodLength, gridSize)
	}

	order := OrderSeries(horizontal, vertical)
	absOrder := make([]float64, len(order))
	for i, s := range order {
		absOrder[i] = math.Abs(s)
	}
	density := DensitySeries(horizontal, vertical, rodLength, gridSize)

	s := Summary{
		Activity:       z,
		Samples:        len(horizontal),
		MeanHorizontal: stat.Mean(toFloats(horizontal), nil),
		MeanVertical:   stat.Mean(toFloats(vertical), nil),
		MeanOrder:      stat.Mean(order, nil),
	}
	s.MeanN = s.MeanHorizontal + s.MeanVertical
	s.MeanAbsOrder, s.AbsOrderError = MeanError(absOrder, opts)
	s.MeanDensity, s.DensityError = MeanError(density, opts)
	return s, nil
}

// IntegerDividers returns unit-width bin edges centred on every integer from
// min(values) to max(values), for histograms of count observables.
func IntegerDividers(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := math.Floor(minOf(values)), math.Ceil(maxOf(values))
	dividers := make([]float64, 0, int(hi-lo)+2)
	for v := lo - 0.5; v <= hi+0.5; v++ {
		dividers = append(dividers, v)
	}
	return dividers
}

// UniformDividers returns bins+1 evenly spaced edges over [lo, hi]; the last
// edge is nudged up so hi itself falls in the final bin.
func UniformDividers(lo, hi float64, bins int) []float64 {
	dividers := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range dividers {
		dividers[i] = lo + float64(i)*width
	}
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return dividers
}

// Histogram counts values into the bins delimited by dividers. Values outside
// [dividers[0], dividers[last]) are dropped.
func Histogram(values, dividers []float64) []float64 {
	if len(dividers) < 2 {
		return nil
	}
	in := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= dividers[0] && v < dividers[len(dividers)-1] {
			in = append(in, v)
		}
	}
	sort.Float64s(in)
	return stat.Histogram(nil, dividers, in, nil)
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Max(m, x)
	}
	return m
}
