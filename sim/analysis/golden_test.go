package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rodlattice/rodsim/sim/internal/testutil"
)

// TestSummarize_GoldenDataset checks Summarize against hand-computed values
// for fixed series.
func TestSummarize_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			opts := ErrorOptions{Scale: tc.ErrorScale, BlockSize: tc.ErrorBlock}
			got, err := Summarize(tc.Activity, tc.Horizontal, tc.Vertical, tc.RodLength, tc.GridSize, opts)
			require.NoError(t, err)

			want := tc.Summary
			require.Equal(t, want.Samples, got.Samples)
			const relTol = 1e-9
			testutil.AssertFloat64Equal(t, "mean_n_horizontal", want.MeanHorizontal, got.MeanHorizontal, relTol)
			testutil.AssertFloat64Equal(t, "mean_n_vertical", want.MeanVertical, got.MeanVertical, relTol)
			testutil.AssertFloat64Equal(t, "mean_n", want.MeanN, got.MeanN, relTol)
			testutil.AssertFloat64Equal(t, "mean_s", want.MeanOrder, got.MeanOrder, relTol)
			testutil.AssertFloat64Equal(t, "mean_abs_s", want.MeanAbsOrder, got.MeanAbsOrder, relTol)
			testutil.AssertFloat64Equal(t, "abs_s_error", want.AbsOrderError, got.AbsOrderError, relTol)
			testutil.AssertFloat64Equal(t, "mean_eta", want.MeanDensity, got.MeanDensity, relTol)
			testutil.AssertFloat64Equal(t, "eta_error", want.DensityError, got.DensityError, relTol)
		})
	}
}
