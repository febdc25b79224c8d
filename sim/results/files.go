// Package results persists run results as whitespace-delimited text files
// and indexes run summaries in SQLite.
//
// Per activity z, a run produces three files in the output directory:
//
//	grid_<z>.csv  M rows of M cell marks (0 empty, 1 horizontal, 2 vertical)
//	pos_<z>.csv   one "x y flag" row per particle (flag 1 horizontal, 0 vertical)
//	obs_<z>.csv   two rows of equal length: the N+ and N− series
//
// The layout matches numpy's savetxt/loadtxt, so readers also accept
// float-formatted values such as "1.000000000000000000e+00". With
// compression enabled each file is zstd-compressed and gets a ".zst" suffix.
package results

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/rodlattice/rodsim/sim"
)

const compressedSuffix = ".zst"

// Options controls how results are written.
type Options struct {
	Compress bool
}

// Paths are the three files written for one activity.
type Paths struct {
	Grid        string `json:"grid"`
	Particles   string `json:"particles"`
	Observables string `json:"observables"`
}

// FormatActivity renders z the way it appears in file names.
func FormatActivity(z float64) string {
	return strconv.FormatFloat(z, 'g', -1, 64)
}

// PathsFor returns the file paths for activity z in dir.
func PathsFor(dir string, z float64, compress bool) Paths {
	suffix := ".csv"
	if compress {
		suffix += compressedSuffix
	}
	name := FormatActivity(z)
	return Paths{
		Grid:        filepath.Join(dir, "grid_"+name+suffix),
		Particles:   filepath.Join(dir, "pos_"+name+suffix),
		Observables: filepath.Join(dir, "obs_"+name+suffix),
	}
}

// Save writes the grid, particle and observable files of res into dir.
func Save(dir string, res *sim.RunResult, opts Options) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating output dir: %w", err)
	}
	paths := PathsFor(dir, res.Activity, opts.Compress)
	if err := writeFile(paths.Grid, func(w io.Writer) error { return WriteGrid(w, res.Grid) }); err != nil {
		return paths, err
	}
	if err := writeFile(paths.Particles, func(w io.Writer) error { return WriteParticles(w, res.Particles) }); err != nil {
		return paths, err
	}
	if err := writeFile(paths.Observables, func(w io.Writer) error {
		return WriteObservables(w, res.Horizontal, res.Vertical)
	}); err != nil {
		return paths, err
	}
	return paths, nil
}

// WriteGrid writes one line per grid row, cells separated by spaces.
func WriteGrid(w io.Writer, grid [][]sim.CellMark) error {
	bw := bufio.NewWriter(w)
	for _, row := range grid {
		for x, c := range row {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(int(c)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteParticles writes one "x y flag" line per particle.
func WriteParticles(w io.Writer, particles []sim.Particle) error {
	bw := bufio.NewWriter(w)
	for _, p := range particles {
		fmt.Fprintf(bw, "%d %d %d\n", p.X, p.Y, p.Orientation.Flag())
	}
	return bw.Flush()
}

// WriteObservables writes the N+ series on the first line and the N− series
// on the second. Both series must have the same length.
func WriteObservables(w io.Writer, horizontal, vertical []int) error {
	if len(horizontal) != len(vertical) {
		return fmt.Errorf("series length mismatch: %d horizontal vs %d vertical", len(horizontal), len(vertical))
	}
	bw := bufio.NewWriter(w)
	for _, series := range [][]int{horizontal, vertical} {
		for i, v := range series {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadGrid parses a grid file. All rows must have the same width.
func ReadGrid(path string) ([][]sim.CellMark, error) {
	rows, err := readMatrix(path)
	if err != nil {
		return nil, err
	}
	grid := make([][]sim.CellMark, len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("%s: row %d has %d cells, want %d", path, y, len(row), len(rows))
		}
		grid[y] = make([]sim.CellMark, len(row))
		for x, v := range row {
			if v < int(sim.CellEmpty) || v > int(sim.CellVertical) {
				return nil, fmt.Errorf("%s: invalid cell mark %d at (%d, %d)", path, v, x, y)
			}
			grid[y][x] = sim.CellMark(v)
		}
	}
	return grid, nil
}

// ReadParticles parses a particle file.
func ReadParticles(path string) ([]sim.Particle, error) {
	rows, err := readMatrix(path)
	if err != nil {
		return nil, err
	}
	particles := make([]sim.Particle, 0, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("%s: line %d has %d fields, want 3", path, i+1, len(row))
		}
		particles = append(particles, sim.Particle{X: row[0], Y: row[1], Orientation: sim.OrientationFromFlag(row[2])})
	}
	return particles, nil
}

// ReadObservables parses an observable file into the N+ and N− series.
func ReadObservables(path string) (horizontal, vertical []int, err error) {
	rows, err := readLines(path, true)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 rows, got %d", path, len(rows))
	}
	if len(rows[0]) != len(rows[1]) {
		return nil, nil, fmt.Errorf("%s: series length mismatch: %d vs %d", path, len(rows[0]), len(rows[1]))
	}
	return rows[0], rows[1], nil
}

// FindActivities lists the activities that have an observable file in dir,
// compressed or not, in increasing order.
func FindActivities(dir string) ([]float64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading results dir: %w", err)
	}
	seen := make(map[float64]bool)
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), compressedSuffix)
		if e.IsDir() || !strings.HasPrefix(name, "obs_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		z, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(name, "obs_"), ".csv"), 64)
		if err != nil {
			continue
		}
		seen[z] = true
	}
	zs := make([]float64, 0, len(seen))
	for z := range seen {
		zs = append(zs, z)
	}
	sort.Float64s(zs)
	return zs, nil
}

// Locate returns the existing files for activity z, preferring uncompressed.
func Locate(dir string, z float64) (Paths, error) {
	for _, compress := range []bool{false, true} {
		p := PathsFor(dir, z, compress)
		if _, err := os.Stat(p.Observables); err == nil {
			return p, nil
		}
	}
	return Paths{}, fmt.Errorf("no results for activity %s in %s", FormatActivity(z), dir)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, compressedSuffix) {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		w = enc
	}
	if err := write(w); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("flushing %s: %w", path, err)
		}
	}
	return f.Close()
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, compressedSuffix) {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
	}
	return &decodedFile{Decoder: dec, f: f}, nil
}

type decodedFile struct {
	*zstd.Decoder
	f *os.File
}

func (d *decodedFile) Close() error {
	d.Decoder.Close()
	return d.f.Close()
}

// readMatrix reads the non-empty lines of a file as integer rows.
func readMatrix(path string) ([][]int, error) {
	return readLines(path, false)
}

// readLines parses whitespace-separated numbers per line. Lines starting
// with '#' are comments. Blank lines are kept only when keepEmpty is set
// (an empty observable series is an empty line), except a final newline.
func readLines(path string, keepEmpty bool) ([][]int, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var rows [][]int
	br := bufio.NewReader(rc)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err == io.EOF && line == "" {
			break
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
		case trimmed == "" && !keepEmpty:
		default:
			row, perr := parseRow(trimmed)
			if perr != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, perr)
			}
			rows = append(rows, row)
		}
		if err == io.EOF {
			break
		}
	}
	return rows, nil
}

func parseRow(line string) ([]int, error) {
	fields := strings.Fields(line)
	row := make([]int, len(fields))
	for i, f := range fields {
		if v, err := strconv.Atoi(f); err == nil {
			row[i] = v
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", f, err)
		}
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("non-integer value %q", f)
		}
		row[i] = int(v)
	}
	return row, nil
}
