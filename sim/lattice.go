package sim

import "fmt"

// Particle is one rod: its anchor cell and orientation. The rod covers
// RodLength cells starting at the anchor along its axis, with wraparound.
type Particle struct {
	X           int
	Y           int
	Orientation Orientation
}

// Anchor returns the particle's anchor cell.
func (p Particle) Anchor() Position { return Position{X: p.X, Y: p.Y} }

// Lattice is the mutable state of one run: the occupancy grid, the ordered
// particle registry and cached per-orientation counts.
//
// Invariants (maintained by place/remove, checked by Verify):
//   - len(particles) == nHorizontal + nVertical
//   - a cell is occupied iff exactly one particle's span covers it
type Lattice struct {
	grid        *Grid
	rodLength   int
	particles   []Particle
	nHorizontal int
	nVertical   int
}

// NewLattice creates an empty size×size lattice for rods of length rodLength.
// Callers validate the dimensions through RunParams.Validate.
func NewLattice(size, rodLength int) *Lattice {
	return &Lattice{
		grid:      NewGrid(size),
		rodLength: rodLength,
		particles: make([]Particle, 0),
	}
}

// Size returns M.
func (l *Lattice) Size() int { return l.grid.size }

// RodLength returns L.
func (l *Lattice) RodLength() int { return l.rodLength }

// Grid exposes the occupancy grid for read-only use (collision checks,
// rendering). Mutate only through the move kernel.
func (l *Lattice) Grid() *Grid { return l.grid }

// N returns the total particle count.
func (l *Lattice) N() int { return l.nHorizontal + l.nVertical }

// NHorizontal returns the cached count of horizontal rods (N+).
func (l *Lattice) NHorizontal() int { return l.nHorizontal }

// NVertical returns the cached count of vertical rods (N−).
func (l *Lattice) NVertical() int { return l.nVertical }

// Particle returns the record at index i.
func (l *Lattice) Particle(i int) Particle { return l.particles[i] }

// Particles returns a copy of the particle registry in insertion order.
func (l *Lattice) Particles() []Particle {
	out := make([]Particle, len(l.particles))
	copy(out, l.particles)
	return out
}

// Snapshot returns a copy of the grid as rows indexed by y.
func (l *Lattice) Snapshot() [][]CellMark { return l.grid.Rows() }

// Fits reports whether p could be placed without overlapping existing rods.
func (l *Lattice) Fits(p Particle) bool {
	return !Collides(l.grid, p.Anchor(), p.Orientation, l.rodLength)
}

// Place adds p after checking bounds and overlap. The move kernel uses the
// unchecked path; Place is for building configurations explicitly.
func (l *Lattice) Place(p Particle) error {
	if p.X < 0 || p.X >= l.grid.size || p.Y < 0 || p.Y >= l.grid.size {
		return fmt.Errorf("anchor (%d, %d) outside %d×%d lattice", p.X, p.Y, l.grid.size, l.grid.size)
	}
	if !l.Fits(p) {
		return fmt.Errorf("%s rod at (%d, %d) overlaps an existing rod", p.Orientation, p.X, p.Y)
	}
	l.place(p)
	return nil
}

// place marks the span, appends the record and bumps the matching count.
func (l *Lattice) place(p Particle) {
	mark := p.Orientation.Mark()
	walkSpan(l.grid.size, p.Anchor(), p.Orientation, l.rodLength, func(x, y int) bool {
		l.grid.set(x, y, mark)
		return true
	})
	l.particles = append(l.particles, p)
	if p.Orientation == Horizontal {
		l.nHorizontal++
	} else {
		l.nVertical++
	}
}

// remove clears the span of particle i, deletes its record keeping the order
// of the others, and decrements the matching count.
func (l *Lattice) remove(i int) Particle {
	p := l.particles[i]
	walkSpan(l.grid.size, p.Anchor(), p.Orientation, l.rodLength, func(x, y int) bool {
		l.grid.set(x, y, CellEmpty)
		return true
	})
	l.particles = append(l.particles[:i], l.particles[i+1:]...)
	if p.Orientation == Horizontal {
		l.nHorizontal--
	} else {
		l.nVertical--
	}
	return p
}

// Clone deep-copies the lattice.
func (l *Lattice) Clone() *Lattice {
	return &Lattice{
		grid:        l.grid.clone(),
		rodLength:   l.rodLength,
		particles:   l.Particles(),
		nHorizontal: l.nHorizontal,
		nVertical:   l.nVertical,
	}
}

// Verify rebuilds occupancy from the particle registry and compares it with
// the grid and the cached counts. It returns the first mismatch found.
func (l *Lattice) Verify() error {
	if len(l.particles) != l.nHorizontal+l.nVertical {
		return fmt.Errorf("particle count %d != nHorizontal %d + nVertical %d",
			len(l.particles), l.nHorizontal, l.nVertical)
	}
	coverage := make([]int, len(l.grid.cells))
	nh, nv := 0, 0
	for i, p := range l.particles {
		if p.Orientation == Horizontal {
			nh++
		} else {
			nv++
		}
		var err error
		walkSpan(l.grid.size, p.Anchor(), p.Orientation, l.rodLength, func(x, y int) bool {
			idx := l.grid.Index(x, y)
			coverage[idx]++
			if coverage[idx] > 1 {
				err = fmt.Errorf("particle %d overlaps another rod at (%d, %d)", i, x, y)
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	if nh != l.nHorizontal || nv != l.nVertical {
		return fmt.Errorf("cached counts (%d, %d) disagree with registry (%d, %d)", l.nHorizontal, l.nVertical, nh, nv)
	}
	for idx, c := range l.grid.cells {
		if c.Occupied() != (coverage[idx] == 1) {
			return fmt.Errorf("cell (%d, %d) mark %d but covered %d times",
				idx%l.grid.size, idx/l.grid.size, c, coverage[idx])
		}
	}
	return nil
}
