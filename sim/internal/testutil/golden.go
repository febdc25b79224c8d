// Package testutil provides shared test infrastructure for the rod simulator.
// It holds the golden analysis dataset and assertion helpers used across the
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is a fixed pair of count series with its expected summary.
type GoldenTestCase struct {
	Name       string        `json:"name"`
	Activity   float64       `json:"activity"`
	RodLength  int           `json:"rod_length"`
	GridSize   int           `json:"grid_size"`
	Horizontal []int         `json:"horizontal"`
	Vertical   []int         `json:"vertical"`
	ErrorScale float64       `json:"error_scale"`
	ErrorBlock int           `json:"error_block"`
	Summary    GoldenSummary `json:"summary"`
}

// GoldenSummary is the expected output of analysis.Summarize.
type GoldenSummary struct {
	Samples int `json:"samples"`

	// Count means
	MeanHorizontal float64 `json:"mean_n_horizontal"`
	MeanVertical   float64 `json:"mean_n_vertical"`
	MeanN          float64 `json:"mean_n"`

	// Order parameter S and |S|
	MeanOrder     float64 `json:"mean_s"`
	MeanAbsOrder  float64 `json:"mean_abs_s"`
	AbsOrderError float64 `json:"abs_s_error"`

	// Packing density η
	MeanDensity  float64 `json:"mean_eta"`
	DensityError float64 `json:"eta_error"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// RequireNonEmptyFile fails the test unless path exists and has content.
func RequireNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}
