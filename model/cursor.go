package model

// Step is what the motion side needs for one move: where the cursor is,
// where it goes next and in which direction.
type Step struct {
	Index     int
	Cell      Cell
	Next      Cell
	Direction Direction
	Complete  bool
}

func (g *Grid) CursorIndex() int {
	return g.cursor
}

// SetCursor moves the cursor; indices outside the path are ignored.
func (g *Grid) SetCursor(index int) {
	if index >= 0 && index < len(g.path) {
		g.cursor = index
	}
}

func (g *Grid) ResetCursor() {
	g.cursor = 0
}

func (g *Grid) CurrentCell() Cell {
	c, _ := g.Cell(g.cursor)
	return c
}

// NextCell is NoCell at the end of the path.
func (g *Grid) NextCell() Cell {
	c, _ := g.Cell(g.cursor + 1)
	return c
}

func (g *Grid) IsPathComplete() bool {
	return g.IsComplete(g.cursor)
}

// Advance moves the cursor one cell on. It returns false, and does nothing,
// when the cursor is already on the last cell.
func (g *Grid) Advance() bool {
	if g.IsPathComplete() {
		return false
	}
	g.cursor++
	return true
}

// Step derives the traversal tuple at the cursor.
func (g *Grid) Step() Step {
	return Step{
		Index:     g.cursor,
		Cell:      g.CurrentCell(),
		Next:      g.NextCell(),
		Direction: g.NextDirection(g.cursor),
		Complete:  g.IsPathComplete(),
	}
}
