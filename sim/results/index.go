package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunRecord is one row of the run index: the parameters of a finished run
// and the summary observables computed from its series.
type RunRecord struct {
	RunID               string
	SweepID             string
	Activity            float64
	GridSize            int
	RodLength           int
	Seed                int64
	ThermalizationSteps int64
	MeasurementSteps    int64
	SampleInterval      int64
	Samples             int
	MeanHorizontal      float64
	MeanVertical        float64
	MeanAbsOrder        float64
	MeanDensity         float64
	InsertRatio         float64
	DeleteRatio         float64
	OutputPath          string
	CreatedAt           int64
}

// Index stores run summaries in a SQLite database so sweeps can be compared
// without re-reading every observable file.
type Index struct {
	db *sql.DB
}

var indexSchema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	run_id               TEXT PRIMARY KEY,
	sweep_id             TEXT NOT NULL,
	activity             REAL NOT NULL,
	grid_size            INTEGER NOT NULL,
	rod_length           INTEGER NOT NULL,
	seed                 INTEGER NOT NULL,
	thermalization_steps INTEGER NOT NULL,
	measurement_steps    INTEGER NOT NULL,
	sample_interval      INTEGER NOT NULL,
	samples              INTEGER NOT NULL,
	mean_horizontal      REAL NOT NULL,
	mean_vertical        REAL NOT NULL,
	mean_abs_order       REAL NOT NULL,
	mean_density         REAL NOT NULL,
	insert_ratio         REAL NOT NULL,
	delete_ratio         REAL NOT NULL,
	output_path          TEXT NOT NULL DEFAULT '',
	created_at           INTEGER NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_sweep ON runs(sweep_id, activity);`,
}

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty index db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	stmts := append([]string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;"}, indexSchema...)
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing index db: %w", err)
		}
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error { return ix.db.Close() }

// NewSweepID returns a fresh identifier grouping the runs of one invocation.
func NewSweepID() string { return uuid.New().String() }

// Insert persists rec. Empty RunID and zero CreatedAt are filled in.
func (ix *Index) Insert(rec *RunRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}
	_, err := ix.db.Exec(`
		INSERT INTO runs (
			run_id, sweep_id, activity, grid_size, rod_length, seed,
			thermalization_steps, measurement_steps, sample_interval, samples,
			mean_horizontal, mean_vertical, mean_abs_order, mean_density,
			insert_ratio, delete_ratio, output_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.SweepID, rec.Activity, rec.GridSize, rec.RodLength, rec.Seed,
		rec.ThermalizationSteps, rec.MeasurementSteps, rec.SampleInterval, rec.Samples,
		rec.MeanHorizontal, rec.MeanVertical, rec.MeanAbsOrder, rec.MeanDensity,
		rec.InsertRatio, rec.DeleteRatio, rec.OutputPath, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.RunID, err)
	}
	return nil
}

// List returns the runs of sweepID ordered by activity, or every run
// (ordered by creation, then activity) when sweepID is empty.
func (ix *Index) List(sweepID string) ([]RunRecord, error) {
	query := `SELECT run_id, sweep_id, activity, grid_size, rod_length, seed,
		thermalization_steps, measurement_steps, sample_interval, samples,
		mean_horizontal, mean_vertical, mean_abs_order, mean_density,
		insert_ratio, delete_ratio, output_path, created_at FROM runs`
	var args []any
	if sweepID != "" {
		query += ` WHERE sweep_id = ? ORDER BY activity`
		args = append(args, sweepID)
	} else {
		query += ` ORDER BY created_at, activity`
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.SweepID, &r.Activity, &r.GridSize, &r.RodLength, &r.Seed,
			&r.ThermalizationSteps, &r.MeasurementSteps, &r.SampleInterval, &r.Samples,
			&r.MeanHorizontal, &r.MeanVertical, &r.MeanAbsOrder, &r.MeanDensity,
			&r.InsertRatio, &r.DeleteRatio, &r.OutputPath, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
