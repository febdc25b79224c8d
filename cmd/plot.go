package cmd

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rodlattice/rodsim/sim/analysis"
	"github.com/rodlattice/rodsim/sim/figures"
	"github.com/rodlattice/rodsim/sim/results"
)

const histogramBins = 50

var (
	// CLI flags for figures
	plotActivity   float64 // Activity whose files are plotted
	plotKind       string  // series, grid or histogram
	plotObservable string  // Histogram observable
	plotInterval   int64   // Steps between samples, for the series x axis
	plotRodLen     int     // L, needed for order and density histograms
	plotGridSize   int     // M, needed for density histograms
	plotOut        string  // PNG output path
)

// plotRequest selects one figure of one run.
type plotRequest struct {
	Dir            string
	Activity       float64
	Kind           string
	Observable     string
	SampleInterval int64
	RodLength      int
	GridSize       int
	Out            string
}

// plotCmd renders one figure from saved result files
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a series, configuration or histogram figure for one activity",
	Run: func(cmd *cobra.Command, args []string) {
		req := plotRequest{
			Dir: inDir, Activity: plotActivity, Kind: plotKind, Observable: plotObservable,
			SampleInterval: plotInterval, RodLength: plotRodLen, GridSize: plotGridSize, Out: plotOut,
		}
		if err := renderPlot(req); err != nil {
			logrus.Fatalf("Plot failed: %v", err)
		}
		logrus.Infof("Wrote %s", plotOut)
	},
}

func renderPlot(req plotRequest) error {
	paths, err := results.Locate(req.Dir, req.Activity)
	if err != nil {
		return err
	}
	switch req.Kind {
	case "series":
		h, v, err := results.ReadObservables(paths.Observables)
		if err != nil {
			return err
		}
		return figures.Series(req.Activity, h, v, req.SampleInterval, req.Out)
	case "grid":
		grid, err := results.ReadGrid(paths.Grid)
		if err != nil {
			return err
		}
		return figures.Configuration(req.Activity, grid, req.Out)
	case "histogram":
		h, v, err := results.ReadObservables(paths.Observables)
		if err != nil {
			return err
		}
		values, integral, err := observableSeries(req, h, v)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return fmt.Errorf("activity %g: no samples", req.Activity)
		}
		var dividers []float64
		if integral {
			dividers = analysis.IntegerDividers(values)
		} else {
			lo, hi := slices.Min(values), slices.Max(values)
			if hi == lo {
				hi = lo + 1
			}
			dividers = analysis.UniformDividers(lo, hi, histogramBins)
		}
		title := fmt.Sprintf("%s, z=%s", req.Observable, results.FormatActivity(req.Activity))
		return figures.Histogram(title, req.Observable, dividers, analysis.Histogram(values, dividers), req.Out)
	default:
		return fmt.Errorf("unknown plot kind %q (want series, grid or histogram)", req.Kind)
	}
}

// observableSeries returns the requested per-sample observable and whether
// it takes integer values.
func observableSeries(req plotRequest, h, v []int) ([]float64, bool, error) {
	switch req.Observable {
	case "n-plus":
		return toFloat64s(h), true, nil
	case "n-minus":
		return toFloat64s(v), true, nil
	case "n":
		n := make([]int, len(h))
		for i := range h {
			n[i] = h[i] + v[i]
		}
		return toFloat64s(n), true, nil
	case "order":
		return analysis.OrderSeries(h, v), false, nil
	case "density":
		if req.RodLength <= 0 || req.GridSize <= 0 {
			return nil, false, fmt.Errorf("density needs positive rod length and grid size")
		}
		return analysis.DensitySeries(h, v, req.RodLength, req.GridSize), false, nil
	default:
		return nil, false, fmt.Errorf("unknown observable %q (want n-plus, n-minus, n, order or density)", req.Observable)
	}
}

func toFloat64s(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func init() {
	plotCmd.Flags().StringVar(&inDir, "in", "results", "Directory holding result files")
	plotCmd.Flags().Float64Var(&plotActivity, "activity", 1.0, "Activity z of the run to plot")
	plotCmd.Flags().StringVar(&plotKind, "kind", "series", "Figure kind: series, grid or histogram")
	plotCmd.Flags().StringVar(&plotObservable, "observable", "n", "Histogram observable: n-plus, n-minus, n, order or density")
	plotCmd.Flags().Int64Var(&plotInterval, "sample-interval", 1, "Steps between samples, scales the series x axis")
	plotCmd.Flags().IntVar(&plotRodLen, "rod-length", 8, "Rod length L used by the run")
	plotCmd.Flags().IntVar(&plotGridSize, "grid-size", 64, "Lattice side M used by the run")
	plotCmd.Flags().StringVar(&plotOut, "out", "figure.png", "PNG output path")

	rootCmd.AddCommand(plotCmd)
}
