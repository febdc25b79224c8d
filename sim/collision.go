package sim

// walkSpan visits the rodLength cells of a rod anchored at a, wrapping past
// size-1 back to 0 along the rod's axis. It stops early when fn returns false.
func walkSpan(size int, a Position, o Orientation, rodLength int, fn func(x, y int) bool) {
	for k := 0; k < rodLength; k++ {
		x, y := a.X, a.Y
		if o == Horizontal {
			x = (a.X + k) % size
		} else {
			y = (a.Y + k) % size
		}
		if !fn(x, y) {
			return
		}
	}
}

// Span returns the cells covered by a rod anchored at a. A rod crossing the
// boundary yields the trailing segment [anchor, M) followed by [0, (anchor+L) mod M).
func Span(size int, a Position, o Orientation, rodLength int) []Position {
	cells := make([]Position, 0, rodLength)
	walkSpan(size, a, o, rodLength, func(x, y int) bool {
		cells = append(cells, Position{X: x, Y: y})
		return true
	})
	return cells
}

// Collides reports whether a rod of the given orientation and length,
// anchored at a, would cover any occupied cell of g. The anchor is wrapped
// onto the torus first. Pure and O(rodLength).
func Collides(g *Grid, a Position, o Orientation, rodLength int) bool {
	a.X, a.Y = g.Wrap(a.X, a.Y)
	hit := false
	walkSpan(g.size, a, o, rodLength, func(x, y int) bool {
		if g.At(x, y).Occupied() {
			hit = true
			return false
		}
		return true
	})
	return hit
}
