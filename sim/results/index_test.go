package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_InsertAndList(t *testing.T) {
	// GIVEN a fresh index
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	defer ix.Close()

	sweepA := NewSweepID()
	sweepB := NewSweepID()
	require.NotEqual(t, sweepA, sweepB)

	// WHEN runs from two sweeps are inserted out of activity order
	for _, rec := range []*RunRecord{
		{SweepID: sweepA, Activity: 1.1, GridSize: 64, RodLength: 8, Seed: 1, Samples: 10, MeanAbsOrder: 0.8},
		{SweepID: sweepA, Activity: 0.05, GridSize: 64, RodLength: 8, Seed: 2, Samples: 10, MeanAbsOrder: 0.1},
		{SweepID: sweepB, Activity: 0.56, GridSize: 32, RodLength: 4, Seed: 3, Samples: 5},
	} {
		require.NoError(t, ix.Insert(rec))
		assert.NotEmpty(t, rec.RunID)
		assert.NotZero(t, rec.CreatedAt)
	}

	// THEN listing one sweep returns its runs by activity
	runs, err := ix.List(sweepA)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 0.05, runs[0].Activity)
	assert.Equal(t, 1.1, runs[1].Activity)
	assert.Equal(t, 0.8, runs[1].MeanAbsOrder)
	assert.Equal(t, int64(1), runs[1].Seed)

	// AND listing everything returns all three
	all, err := ix.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestIndex_DuplicateRunIDRejected(t *testing.T) {
	ix, err := OpenIndex(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer ix.Close()

	rec := &RunRecord{RunID: "fixed", SweepID: "s", Activity: 1}
	require.NoError(t, ix.Insert(rec))
	dup := *rec
	assert.Error(t, ix.Insert(&dup))
}

func TestIndex_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ix, err := OpenIndex(path)
	require.NoError(t, err)
	require.NoError(t, ix.Insert(&RunRecord{SweepID: "s", Activity: 0.25}))
	require.NoError(t, ix.Close())

	ix, err = OpenIndex(path)
	require.NoError(t, err)
	defer ix.Close()
	runs, err := ix.List("s")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenIndex_EmptyPath(t *testing.T) {
	_, err := OpenIndex("")
	assert.Error(t, err)
}
