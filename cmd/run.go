package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rodlattice/rodsim/sim"
)

var (
	// CLI flags for a single run
	runParams   = sim.DefaultRunParams()
	runSeed     int64  // Seed of the move stream
	outDir      string // Directory receiving grid/pos/obs files
	compress    bool   // zstd-compress result files
	indexDBPath string // SQLite run index, empty to disable
)

// runCmd executes one GCMC run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one GCMC simulation at a single activity",
	Run: func(cmd *cobra.Command, args []string) {
		opts := outputOptions{Dir: outDir, Compress: compress, IndexDB: indexDBPath}
		if err := runSingle(runParams, runSeed, opts); err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// runSingle executes one run and persists it.
func runSingle(params sim.RunParams, seed int64, opts outputOptions) error {
	res, err := sim.Execute(params, seed)
	if err != nil {
		return err
	}
	out, err := openSink(opts)
	if err != nil {
		return err
	}
	defer out.Close()
	return out.persist(res)
}

func init() {
	d := sim.DefaultRunParams()
	runCmd.Flags().Float64Var(&runParams.Activity, "activity", d.Activity, "Activity z (fugacity) of the reservoir")
	runCmd.Flags().IntVar(&runParams.GridSize, "grid-size", d.GridSize, "Lattice side M")
	runCmd.Flags().IntVar(&runParams.RodLength, "rod-length", d.RodLength, "Rod length L in cells")
	runCmd.Flags().Int64Var(&runParams.ThermalizationSteps, "therm-steps", d.ThermalizationSteps, "Steps discarded before measuring")
	runCmd.Flags().Int64Var(&runParams.MeasurementSteps, "measure-steps", d.MeasurementSteps, "Steps of the measurement phase")
	runCmd.Flags().Int64Var(&runParams.SampleInterval, "sample-interval", d.SampleInterval, "Steps between recorded samples")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Seed for the move stream")
	addOutputFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

// addOutputFlags registers the persistence flags shared by run and sweep.
func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVar(&outDir, "out", "results", "Output directory for result files")
	c.Flags().BoolVar(&compress, "compress", false, "Write zstd-compressed result files")
	c.Flags().StringVar(&indexDBPath, "index-db", "", "SQLite database indexing run summaries")
}
