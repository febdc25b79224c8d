package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rodlattice/rodsim/sim/analysis"
	"github.com/rodlattice/rodsim/sim/figures"
	"github.com/rodlattice/rodsim/sim/results"
)

var (
	// CLI flags for analysis
	inDir           string    // Directory holding result files
	analyzeRodLen   int       // L used by the runs
	analyzeGridSize int       // M used by the runs
	analyzeZs       []float64 // Activities to analyze, all found when empty
	figurePath      string    // Optional <|S|> vs <η> PNG
	errorScale      float64   // k in k·σ/√(n/block)
	errorBlock      int       // Samples per independent block
)

// analyzeCmd summarizes the observable files of a results directory
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize order parameter and packing density per activity",
	Run: func(cmd *cobra.Command, args []string) {
		opts := analysis.ErrorOptions{Scale: errorScale, BlockSize: errorBlock}
		summaries, err := analyzeDir(inDir, analyzeZs, analyzeRodLen, analyzeGridSize, opts)
		if err != nil {
			logrus.Fatalf("Analysis failed: %v", err)
		}
		printSummaries(os.Stdout, summaries)
		if figurePath != "" {
			if err := figures.OrderDensity(summaries, figurePath); err != nil {
				logrus.Fatalf("Figure failed: %v", err)
			}
			logrus.Infof("Wrote %s", figurePath)
		}
	},
}

// analyzeDir summarizes the runs in dir. With no activities given, every
// activity with an observable file is analyzed.
func analyzeDir(dir string, zs []float64, rodLength, gridSize int, opts analysis.ErrorOptions) ([]analysis.Summary, error) {
	if len(zs) == 0 {
		found, err := results.FindActivities(dir)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no observable files in %s", dir)
		}
		zs = found
	}

	summaries := make([]analysis.Summary, 0, len(zs))
	for _, z := range zs {
		paths, err := results.Locate(dir, z)
		if err != nil {
			return nil, err
		}
		h, v, err := results.ReadObservables(paths.Observables)
		if err != nil {
			return nil, err
		}
		s, err := analysis.Summarize(z, h, v, rodLength, gridSize, opts)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{"activity": z, "samples": s.Samples}).Debug("Summarized run")
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func printSummaries(w io.Writer, summaries []analysis.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "z\tsamples\t<N+>\t<N->\t<N>\t<S>\t<|S|>\t±\t<η>\t±")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			results.FormatActivity(s.Activity), s.Samples, s.MeanHorizontal, s.MeanVertical, s.MeanN,
			s.MeanOrder, s.MeanAbsOrder, s.AbsOrderError, s.MeanDensity, s.DensityError)
	}
	_ = tw.Flush()
}

func init() {
	d := analysis.DefaultErrorOptions()
	analyzeCmd.Flags().StringVar(&inDir, "in", "results", "Directory holding result files")
	analyzeCmd.Flags().IntVar(&analyzeRodLen, "rod-length", 8, "Rod length L used by the runs")
	analyzeCmd.Flags().IntVar(&analyzeGridSize, "grid-size", 64, "Lattice side M used by the runs")
	analyzeCmd.Flags().Float64SliceVar(&analyzeZs, "activities", nil, "Comma-separated activities (default: all found)")
	analyzeCmd.Flags().StringVar(&figurePath, "figure", "", "Write a <|S|> vs <η> PNG to this path")
	analyzeCmd.Flags().Float64Var(&errorScale, "error-scale", d.Scale, "Multiplier k of the error bars")
	analyzeCmd.Flags().IntVar(&errorBlock, "error-block", d.BlockSize, "Samples per independent block for error bars")

	rootCmd.AddCommand(analyzeCmd)
}
