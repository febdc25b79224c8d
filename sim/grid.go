package sim

// CellMark is the content of one lattice cell. Only Occupied() matters to
// the engine; the horizontal/vertical distinction is kept for rendering.
type CellMark uint8

const (
	CellEmpty      CellMark = 0
	CellHorizontal CellMark = 1
	CellVertical   CellMark = 2
)

// Occupied reports whether any rod covers the cell.
func (c CellMark) Occupied() bool { return c != CellEmpty }

// Orientation is the axis a rod lies along.
type Orientation uint8

const (
	// Horizontal rods extend along x (columns of a grid row).
	Horizontal Orientation = iota
	// Vertical rods extend along y (rows of a grid column).
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Mark returns the cell mark written for rods of this orientation.
func (o Orientation) Mark() CellMark {
	if o == Horizontal {
		return CellHorizontal
	}
	return CellVertical
}

// Flag returns the particle-file flag: 1 for horizontal, 0 for vertical.
func (o Orientation) Flag() int {
	if o == Horizontal {
		return 1
	}
	return 0
}

// OrientationFromFlag is the inverse of Flag. Any non-zero flag is horizontal.
func OrientationFromFlag(flag int) Orientation {
	if flag != 0 {
		return Horizontal
	}
	return Vertical
}

// Position is a cell coordinate; X is the column, Y the row.
type Position struct {
	X, Y int
}

// Grid stores an M×M torus of cell marks in row-major order.
type Grid struct {
	size  int
	cells []CellMark
}

// NewGrid allocates an empty size×size grid. size must be positive.
func NewGrid(size int) *Grid {
	return &Grid{size: size, cells: make([]CellMark, size*size)}
}

// Size returns M.
func (g *Grid) Size() int { return g.size }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.size + x }

// At returns the mark at (x, y). Coordinates must be in [0, M).
func (g *Grid) At(x, y int) CellMark { return g.cells[g.Index(x, y)] }

func (g *Grid) set(x, y int, m CellMark) { g.cells[g.Index(x, y)] = m }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.size + g.size) % g.size
	y = (y%g.size + g.size) % g.size
	return x, y
}

// OccupiedCells counts the non-empty cells.
func (g *Grid) OccupiedCells() int {
	n := 0
	for _, c := range g.cells {
		if c.Occupied() {
			n++
		}
	}
	return n
}

// Rows copies the grid into a fresh row-major matrix, rows indexed by y.
func (g *Grid) Rows() [][]CellMark {
	rows := make([][]CellMark, g.size)
	for y := range rows {
		rows[y] = make([]CellMark, g.size)
		copy(rows[y], g.cells[y*g.size:(y+1)*g.size])
	}
	return rows
}

func (g *Grid) clone() *Grid {
	c := &Grid{size: g.size, cells: make([]CellMark, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
