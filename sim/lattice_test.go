package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillHorizontal places n horizontal rods row by row, anchored every L cells.
func fillHorizontal(t *testing.T, l *Lattice, n int) {
	t.Helper()
	perRow := l.Size() / l.RodLength()
	for i := 0; i < n; i++ {
		p := Particle{X: (i % perRow) * l.RodLength(), Y: i / perRow, Orientation: Horizontal}
		require.NoError(t, l.Place(p))
	}
}

func TestLattice_NewIsEmpty(t *testing.T) {
	l := NewLattice(8, 2)

	assert.Equal(t, 0, l.N())
	assert.Empty(t, l.Particles())
	assert.Equal(t, 0, l.Grid().OccupiedCells())
	assert.NoError(t, l.Verify())
}

func TestLattice_HorizontalWrapsAtRightBorder(t *testing.T) {
	// GIVEN an 8×8 lattice with rods of length 3
	l := NewLattice(8, 3)

	// WHEN a horizontal rod is anchored in the last column
	require.NoError(t, l.Place(Particle{X: 7, Y: 2, Orientation: Horizontal}))

	// THEN it covers column 7 and columns 0..L-2 of the same row, nothing else
	assert.Equal(t, CellHorizontal, l.Grid().At(7, 2))
	assert.Equal(t, CellHorizontal, l.Grid().At(0, 2))
	assert.Equal(t, CellHorizontal, l.Grid().At(1, 2))
	assert.Equal(t, CellEmpty, l.Grid().At(2, 2))
	assert.Equal(t, CellEmpty, l.Grid().At(6, 2))
	assert.Equal(t, 3, l.Grid().OccupiedCells())
	assert.NoError(t, l.Verify())
}

func TestLattice_VerticalWrapsAtBottomBorder(t *testing.T) {
	l := NewLattice(6, 4)

	require.NoError(t, l.Place(Particle{X: 1, Y: 4, Orientation: Vertical}))

	for _, y := range []int{4, 5, 0, 1} {
		assert.Equal(t, CellVertical, l.Grid().At(1, y), "row %d", y)
	}
	assert.Equal(t, CellEmpty, l.Grid().At(1, 2))
	assert.Equal(t, CellEmpty, l.Grid().At(1, 3))
	assert.Equal(t, 1, l.NVertical())
}

func TestLattice_PlaceRejectsOverlapAndOutOfRange(t *testing.T) {
	l := NewLattice(8, 4)
	require.NoError(t, l.Place(Particle{X: 6, Y: 0, Orientation: Horizontal}))

	// wrapped tail of the first rod occupies (0,0) and (1,0)
	err := l.Place(Particle{X: 1, Y: 7, Orientation: Vertical})
	assert.Error(t, err)
	assert.Error(t, l.Place(Particle{X: 8, Y: 0, Orientation: Vertical}))
	assert.Error(t, l.Place(Particle{X: 0, Y: -1, Orientation: Vertical}))

	assert.Equal(t, 1, l.N())
	assert.NoError(t, l.Verify())
}

func TestLattice_RemoveClearsSpanAndKeepsOrder(t *testing.T) {
	l := NewLattice(8, 2)
	a := Particle{X: 0, Y: 0, Orientation: Horizontal}
	b := Particle{X: 7, Y: 3, Orientation: Horizontal}
	c := Particle{X: 4, Y: 7, Orientation: Vertical}
	for _, p := range []Particle{a, b, c} {
		require.NoError(t, l.Place(p))
	}

	removed := l.remove(1)

	assert.Equal(t, b, removed)
	assert.Equal(t, []Particle{a, c}, l.Particles())
	assert.Equal(t, CellEmpty, l.Grid().At(7, 3))
	assert.Equal(t, CellEmpty, l.Grid().At(0, 3))
	assert.Equal(t, 1, l.NHorizontal())
	assert.Equal(t, 1, l.NVertical())
	assert.NoError(t, l.Verify())
}

func TestLattice_CloneIsIndependent(t *testing.T) {
	l := NewLattice(8, 2)
	fillHorizontal(t, l, 5)

	c := l.Clone()
	c.remove(0)

	assert.Equal(t, 5, l.N())
	assert.Equal(t, 4, c.N())
	assert.Equal(t, CellHorizontal, l.Grid().At(0, 0))
	assert.Equal(t, CellEmpty, c.Grid().At(0, 0))
}

func TestLattice_SnapshotIsACopy(t *testing.T) {
	l := NewLattice(4, 2)
	require.NoError(t, l.Place(Particle{X: 0, Y: 0, Orientation: Vertical}))

	snap := l.Snapshot()
	snap[0][0] = CellEmpty

	assert.Equal(t, CellVertical, l.Grid().At(0, 0))
	assert.Equal(t, CellVertical, snap[1][0])
}

func TestLattice_VerifyDetectsCorruption(t *testing.T) {
	l := NewLattice(8, 2)
	fillHorizontal(t, l, 3)

	l.grid.set(5, 5, CellVertical)
	assert.Error(t, l.Verify())

	l.grid.set(5, 5, CellEmpty)
	l.nVertical = 1
	assert.Error(t, l.Verify())
}

func TestOrientation_FlagRoundTrip(t *testing.T) {
	assert.Equal(t, 1, Horizontal.Flag())
	assert.Equal(t, 0, Vertical.Flag())
	assert.Equal(t, Horizontal, OrientationFromFlag(1))
	assert.Equal(t, Vertical, OrientationFromFlag(0))
	assert.Equal(t, CellHorizontal, Horizontal.Mark())
	assert.Equal(t, CellVertical, Vertical.Mark())
}
