package model

import "fmt"

// Dimensions computes the grid size that fits a width x height pixel area
// with square cells of edge cellSize. The column count is forced odd so the
// seed path has a unique centre column.
func Dimensions(width, height, cellSize int) (rows, cols int, err error) {
	if cellSize <= 0 || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%dx%d cell %d: %w", width, height, cellSize, ErrDegenerateGeometry)
	}
	rows = (height - 1) / cellSize
	cols = (width - 1) / cellSize
	if cols%2 == 0 {
		cols--
	}
	if rows < 2 || cols < 2 {
		return 0, 0, fmt.Errorf("%dx%d cell %d gives %dx%d: %w",
			width, height, cellSize, rows, cols, ErrDegenerateGeometry)
	}
	return rows, cols, nil
}

// NewGrid sizes a grid from display geometry and seeds the default path.
func NewGrid(width, height, cellSize int) (*Grid, error) {
	rows, cols, err := Dimensions(width, height, cellSize)
	if err != nil {
		return nil, err
	}
	return NewGridSize(rows, cols)
}

// NewGridSize builds a rows x cols grid with the default path. Unlike NewGrid
// it does not force an odd column count.
func NewGridSize(rows, cols int) (*Grid, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrDegenerateGeometry)
	}
	g := &Grid{
		rows:   rows,
		cols:   cols,
		active: make([]bool, rows*cols),
		path:   make([]Cell, 0, rows*cols),
	}
	g.ResetDefault()
	return g, nil
}

// ResetDefault clears every cell and reseeds the two cell path at the bottom
// of the centre column, pointing up. The cursor goes back to 0.
func (g *Grid) ResetDefault() {
	for i := range g.active {
		g.active[i] = false
	}
	g.path = g.path[:0]
	g.cursor = 0
	g.heading = UP

	col := g.cols / 2
	_ = g.add(Cell{Row: g.rows - 1, Col: col})
	_ = g.add(Cell{Row: g.rows - 2, Col: col})
}

// Clear is the user facing "start over". It is always safe to call, also in
// the middle of a traversal.
func (g *Grid) Clear() {
	g.ResetDefault()
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// Activated reports whether the cell is on the path. Out of bounds is false.
func (g *Grid) Activated(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.active[g.index(row, col)]
}

// IsSelectable reports whether (row, col) may extend the path: in bounds,
// not yet active and cardinally adjacent to the last path cell.
func (g *Grid) IsSelectable(row, col int) bool {
	if !g.InBounds(row, col) || g.active[g.index(row, col)] {
		return false
	}
	if len(g.path) == 0 {
		return false
	}
	return g.path[len(g.path)-1].Adjacent(Cell{Row: row, Col: col})
}

// Selectable lists every cell that IsSelectable accepts, at most four.
func (g *Grid) Selectable() []Cell {
	cells := make([]Cell, 0, 4)
	last := g.Last()
	for d := UP; d <= LEFT; d++ {
		c := last.Move(d)
		if g.IsSelectable(c.Row, c.Col) {
			cells = append(cells, c)
		}
	}
	return cells
}

// TryAppend validates and appends (row, col) in one step. A rejected cell
// leaves the grid untouched.
func (g *Grid) TryAppend(row, col int) error {
	if !g.IsSelectable(row, col) {
		return fmt.Errorf("(%d,%d): %w", row, col, ErrNotSelectable)
	}
	return g.add(Cell{Row: row, Col: col})
}

// add is the append primitive shared by the seed path and user edits.
func (g *Grid) add(c Cell) error {
	if len(g.path) >= g.rows*g.cols {
		return ErrPathFull
	}
	g.path = append(g.path, c)
	g.active[g.index(c.Row, c.Col)] = true
	return nil
}

func (g *Grid) Len() int {
	return len(g.path)
}

// Cell returns the path cell at index, or NoCell and false when index is
// outside the path.
func (g *Grid) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(g.path) {
		return NoCell, false
	}
	return g.path[index], true
}

func (g *Grid) Last() Cell {
	c, _ := g.Cell(len(g.path) - 1)
	return c
}

// Path returns a copy of the path.
func (g *Grid) Path() []Cell {
	p := make([]Cell, len(g.path))
	copy(p, g.path)
	return p
}

// IsComplete reports whether index is at (or past) the last path cell.
func (g *Grid) IsComplete(index int) bool {
	return index >= len(g.path)-1
}

// NextDirection derives the direction from the cell at index to the next one
// and holds it. At the end of the path the held direction is returned as is.
func (g *Grid) NextDirection(index int) Direction {
	if g.IsComplete(index) || index < 0 {
		return g.heading
	}
	if d, ok := Between(g.path[index], g.path[index+1]); ok {
		g.heading = d
	}
	return g.heading
}

// Direction returns the last derived (or set) direction.
func (g *Grid) Direction() Direction {
	return g.heading
}

func (g *Grid) SetDirection(d Direction) {
	g.heading = d
}

// Validate checks that the activation matrix and the path agree, that the
// path has no repeats and that every step is a cardinal step.
func (g *Grid) Validate() error {
	if len(g.path) < 2 {
		return fmt.Errorf("grid: path length %d", len(g.path))
	}
	seen := make(map[Cell]int, len(g.path))
	for i, c := range g.path {
		if !g.InBounds(c.Row, c.Col) {
			return fmt.Errorf("grid: path[%d] %v out of bounds", i, c)
		}
		if j, dup := seen[c]; dup {
			return fmt.Errorf("grid: path[%d] repeats path[%d] %v", i, j, c)
		}
		seen[c] = i
		if !g.active[g.index(c.Row, c.Col)] {
			return fmt.Errorf("grid: path[%d] %v not active", i, c)
		}
		if i > 0 && !g.path[i-1].Adjacent(c) {
			return fmt.Errorf("grid: path[%d] %v not adjacent to %v", i, c, g.path[i-1])
		}
	}
	active := 0
	for _, a := range g.active {
		if a {
			active++
		}
	}
	if active != len(g.path) {
		return fmt.Errorf("grid: %d active cells for path of %d", active, len(g.path))
	}
	return nil
}
