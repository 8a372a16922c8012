package model

import "errors"

// Direction of a single step between two path cells.
type Direction int

const (
	UP Direction = iota
	RIGHT
	DOWN
	LEFT
)

var (
	// ErrDegenerateGeometry means the display area cannot hold a 2x2 grid.
	ErrDegenerateGeometry = errors.New("grid: fewer than 2 rows or columns")
	// ErrNotSelectable is returned when a cell is out of bounds, already
	// active or not cardinally adjacent to the end of the path.
	ErrNotSelectable = errors.New("grid: cell not selectable")
	// ErrPathFull is returned when every cell is already on the path.
	ErrPathFull = errors.New("grid: path full")
	// ErrBadRoute is returned when a route cannot be parsed or applied.
	ErrBadRoute = errors.New("grid: bad route")
)

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoCell is returned for lookups outside the path.
var NoCell = Cell{Row: -1, Col: -1}

func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// Adjacent reports cardinal adjacency: one coordinate equal, the other off by one.
func (c Cell) Adjacent(o Cell) bool {
	return (c.Row == o.Row && abs(c.Col-o.Col) == 1) ||
		(c.Col == o.Col && abs(c.Row-o.Row) == 1)
}

// Move returns the neighbour of c in direction d. It is not bounds checked.
func (c Cell) Move(d Direction) Cell {
	dr, dc := d.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Grid is the activation matrix together with the ordered path drawn on it
// and the traversal cursor. It is not safe for concurrent use.
type Grid struct {
	rows, cols int
	active     []bool
	path       []Cell
	cursor     int
	heading    Direction
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
