package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_WrapsAcrossBoundary(t *testing.T) {
	tests := []struct {
		name   string
		anchor Position
		o      Orientation
		want   []Position
	}{
		{"horizontal inside", Position{2, 1}, Horizontal, []Position{{2, 1}, {3, 1}, {4, 1}}},
		{"horizontal touching border", Position{5, 1}, Horizontal, []Position{{5, 1}, {6, 1}, {7, 1}}},
		{"horizontal wrapping", Position{7, 1}, Horizontal, []Position{{7, 1}, {0, 1}, {1, 1}}},
		{"vertical wrapping", Position{3, 6}, Vertical, []Position{{3, 6}, {3, 7}, {3, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Span(8, tt.anchor, tt.o, 3))
		})
	}
}

func TestCollides_EmptyGridNeverCollides(t *testing.T) {
	g := NewGrid(5)
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			assert.False(t, Collides(g, Position{x, y}, Horizontal, 5))
			assert.False(t, Collides(g, Position{x, y}, Vertical, 5))
		}
	}
}

func TestCollides_DetectsWrappedOverlap(t *testing.T) {
	// GIVEN a vertical rod at column 0 covering rows 0 and 1
	l := NewLattice(8, 2)
	require.NoError(t, l.Place(Particle{X: 0, Y: 0, Orientation: Vertical}))

	// THEN a horizontal rod anchored at (7,0) wraps onto (0,0) and collides
	assert.True(t, Collides(l.Grid(), Position{7, 0}, Horizontal, 2))
	// AND one anchored at (6,0) stops at column 7
	assert.False(t, Collides(l.Grid(), Position{6, 0}, Horizontal, 2))
	// AND a vertical rod from row 7 wraps onto (0,0)
	assert.True(t, Collides(l.Grid(), Position{0, 7}, Vertical, 2))
	assert.False(t, Collides(l.Grid(), Position{0, 6}, Vertical, 2))
}

func TestCollides_IgnoresMarkValue(t *testing.T) {
	g := NewGrid(4)
	g.set(1, 1, CellHorizontal)
	g.set(2, 2, CellVertical)

	assert.True(t, Collides(g, Position{0, 1}, Horizontal, 2))
	assert.True(t, Collides(g, Position{2, 1}, Vertical, 2))
}

func TestCollides_IsPure(t *testing.T) {
	l := NewLattice(8, 3)
	fillHorizontal(t, l, 4)
	before := l.Snapshot()

	Collides(l.Grid(), Position{1, 0}, Vertical, 3)
	Collides(l.Grid(), Position{7, 7}, Horizontal, 3)

	assert.Equal(t, before, l.Snapshot())
}
