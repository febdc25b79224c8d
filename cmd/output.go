package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rodlattice/rodsim/sim"
	"github.com/rodlattice/rodsim/sim/analysis"
	"github.com/rodlattice/rodsim/sim/results"
)

// outputOptions says where and how finished runs are persisted.
type outputOptions struct {
	Dir      string
	Compress bool
	IndexDB  string // empty disables the run index
}

// runReport is the per-run JSON block printed to stdout.
type runReport struct {
	Seed      int64             `json:"seed"`
	Params    sim.RunParams     `json:"params"`
	Summary   *analysis.Summary `json:"summary,omitempty"`
	Moves     sim.MoveStats     `json:"moves"`
	Files     results.Paths     `json:"files"`
	ElapsedMs int64             `json:"elapsed_ms"`
}

// sink writes finished runs to disk and, when configured, to the index.
type sink struct {
	opts    outputOptions
	index   *results.Index
	sweepID string
	stdout  io.Writer
}

func openSink(opts outputOptions) (*sink, error) {
	s := &sink{opts: opts, stdout: os.Stdout}
	if opts.IndexDB != "" {
		ix, err := results.OpenIndex(opts.IndexDB)
		if err != nil {
			return nil, fmt.Errorf("opening run index: %w", err)
		}
		s.index = ix
		s.sweepID = results.NewSweepID()
	}
	return s, nil
}

func (s *sink) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

// persist saves res, indexes it and prints its report.
func (s *sink) persist(res *sim.RunResult) error {
	paths, err := results.Save(s.opts.Dir, res, results.Options{Compress: s.opts.Compress})
	if err != nil {
		return fmt.Errorf("saving activity %g: %w", res.Activity, err)
	}

	report := runReport{
		Seed:      res.Seed,
		Params:    res.Params,
		Moves:     res.Stats,
		Files:     paths,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	summary, err := analysis.Summarize(res.Activity, res.Horizontal, res.Vertical,
		res.Params.RodLength, res.Params.GridSize, analysis.DefaultErrorOptions())
	if err != nil {
		logrus.WithField("activity", res.Activity).Warnf("No summary: %v", err)
	} else {
		report.Summary = &summary
		if s.index != nil {
			rec := newRunRecord(res, summary, s.sweepID, paths.Observables)
			if err := s.index.Insert(rec); err != nil {
				return err
			}
		}
	}
	return printReport(s.stdout, report)
}

func newRunRecord(res *sim.RunResult, summary analysis.Summary, sweepID, outputPath string) *results.RunRecord {
	p := res.Params
	return &results.RunRecord{
		SweepID:             sweepID,
		Activity:            res.Activity,
		GridSize:            p.GridSize,
		RodLength:           p.RodLength,
		Seed:                res.Seed,
		ThermalizationSteps: p.ThermalizationSteps,
		MeasurementSteps:    p.MeasurementSteps,
		SampleInterval:      p.SampleInterval,
		Samples:             summary.Samples,
		MeanHorizontal:      summary.MeanHorizontal,
		MeanVertical:        summary.MeanVertical,
		MeanAbsOrder:        summary.MeanAbsOrder,
		MeanDensity:         summary.MeanDensity,
		InsertRatio:         res.Stats.InsertRatio(),
		DeleteRatio:         res.Stats.DeleteRatio(),
		OutputPath:          outputPath,
	}
}

func printReport(w io.Writer, r runReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Fprintf(w, "=== Run z=%s ===\n", results.FormatActivity(r.Params.Activity))
	fmt.Fprintln(w, string(data))
	return nil
}
