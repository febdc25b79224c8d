// Package figures renders run results as PNG charts with gonum/plot:
// count series over the measurement, the final lattice configuration,
// observable histograms and the order-versus-density curve of a sweep.
package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rodlattice/rodsim/sim"
	"github.com/rodlattice/rodsim/sim/analysis"
)

// Default figure size, 17 cm wide.
var (
	Width  = 17 * vg.Centimeter
	Height = 10 * vg.Centimeter
)

var (
	colorTotal      = color.RGBA{R: 30, G: 120, B: 60, A: 255}
	colorHorizontal = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	colorVertical   = color.RGBA{R: 30, G: 60, B: 200, A: 255}
)

// Series plots N, N+ and N− against the measurement step of each sample.
func Series(z float64, horizontal, vertical []int, sampleInterval int64, path string) error {
	if len(horizontal) != len(vertical) {
		return fmt.Errorf("series length mismatch: %d vs %d", len(horizontal), len(vertical))
	}
	total := make(plotter.XYs, len(horizontal))
	plus := make(plotter.XYs, len(horizontal))
	minus := make(plotter.XYs, len(horizontal))
	for i := range horizontal {
		step := float64(int64(i) * sampleInterval)
		total[i] = plotter.XY{X: step, Y: float64(horizontal[i] + vertical[i])}
		plus[i] = plotter.XY{X: step, Y: float64(horizontal[i])}
		minus[i] = plotter.XY{X: step, Y: float64(vertical[i])}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Rod counts, z=%g", z)
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Rods"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for _, s := range []struct {
		name string
		pts  plotter.XYs
		col  color.Color
	}{
		{"N", total, colorTotal},
		{"N+", plus, colorHorizontal},
		{"N-", minus, colorVertical},
	} {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return fmt.Errorf("creating %s line: %w", s.name, err)
		}
		line.Width = vg.Points(0.7)
		line.Color = s.col
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	return save(p, Width, Height, path)
}

// Configuration draws the lattice: empty cells white, horizontal rods red,
// vertical rods blue. Row 0 is drawn at the top.
func Configuration(z float64, grid [][]sim.CellMark, path string) error {
	if len(grid) == 0 {
		return fmt.Errorf("empty grid")
	}
	pal := cellPalette{white: color.White, horizontal: colorHorizontal, vertical: colorVertical}
	hm := plotter.NewHeatMap(latticeGrid(grid), pal)
	hm.Min = float64(sim.CellEmpty)
	hm.Max = float64(sim.CellVertical)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Configuration, z=%g", z)
	p.HideAxes()
	p.Add(hm)
	return save(p, Width, Width, path)
}

// Histogram draws precomputed bin counts, as produced by analysis.Histogram.
func Histogram(title, xLabel string, dividers, counts []float64, path string) error {
	if len(counts) == 0 {
		return fmt.Errorf("no histogram bins")
	}
	if len(dividers) != len(counts)+1 {
		return fmt.Errorf("need len(dividers) == len(counts)+1, got %d and %d", len(dividers), len(counts))
	}
	bins := make([]plotter.HistogramBin, len(counts))
	for i, c := range counts {
		bins[i] = plotter.HistogramBin{Min: dividers[i], Max: dividers[i+1], Weight: c}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     dividers[1] - dividers[0],
		FillColor: colorVertical,
		LineStyle: plotter.DefaultLineStyle,
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Counts"
	p.Add(plotter.NewGrid(), h)
	return save(p, Width, Height, path)
}

// OrderDensity plots <|S|> against <η> for a sweep, with error bars in both
// directions.
func OrderDensity(summaries []analysis.Summary, path string) error {
	if len(summaries) == 0 {
		return fmt.Errorf("no summaries to plot")
	}
	pts := errorPoints{
		XYs:     make(plotter.XYs, len(summaries)),
		XErrors: make(plotter.XErrors, len(summaries)),
		YErrors: make(plotter.YErrors, len(summaries)),
	}
	for i, s := range summaries {
		pts.XYs[i] = plotter.XY{X: s.MeanDensity, Y: s.MeanAbsOrder}
		pts.XErrors[i] = struct{ Low, High float64 }{Low: s.DensityError, High: s.DensityError}
		pts.YErrors[i] = struct{ Low, High float64 }{Low: s.AbsOrderError, High: s.AbsOrderError}
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("creating scatter: %w", err)
	}
	xerr, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return fmt.Errorf("creating x error bars: %w", err)
	}
	yerr, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return fmt.Errorf("creating y error bars: %w", err)
	}
	xerr.LineStyle.Width = vg.Points(0.5)
	yerr.LineStyle.Width = vg.Points(0.5)

	p := plot.New()
	p.Title.Text = "Nematic order"
	p.X.Label.Text = "Packing density <η>"
	p.Y.Label.Text = "Order <|S|>"
	p.Add(plotter.NewGrid(), scatter, xerr, yerr)
	return save(p, Width, Height, path)
}

type errorPoints struct {
	plotter.XYs
	plotter.XErrors
	plotter.YErrors
}

// latticeGrid adapts a cell matrix to plotter.GridXYZ, flipping rows so the
// first grid row is drawn at the top.
type latticeGrid [][]sim.CellMark

func (g latticeGrid) Dims() (c, r int)   { return len(g[0]), len(g) }
func (g latticeGrid) X(c int) float64    { return float64(c) }
func (g latticeGrid) Y(r int) float64    { return float64(r) }
func (g latticeGrid) Z(c, r int) float64 { return float64(g[len(g)-1-r][c]) }

// cellPalette maps the three cell marks to fixed colors.
type cellPalette struct {
	white, horizontal, vertical color.Color
}

func (p cellPalette) Colors() []color.Color {
	return []color.Color{p.white, p.horizontal, p.vertical}
}

var _ palette.Palette = cellPalette{}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
