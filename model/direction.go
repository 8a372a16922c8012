package model

import "fmt"

func (d Direction) Name() string {
	switch d {
	case UP:
		return "UP"
	case RIGHT:
		return "RIGHT"
	case DOWN:
		return "DOWN"
	case LEFT:
		return "LEFT"
	default:
		return fmt.Sprintf("n/a:%d", d)
	}
}

func (d Direction) String() string {
	return d.Name()
}

// Delta returns the row and column offset of one step in direction d.
// Rows grow downwards.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case UP:
		return -1, 0
	case RIGHT:
		return 0, 1
	case DOWN:
		return 1, 0
	case LEFT:
		return 0, -1
	}
	return 0, 0
}

func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Letter is the route file form of d.
func (d Direction) Letter() byte {
	return "URDL"[d%4]
}

// QuarterTurns returns the signed number of clockwise quarter turns needed to
// face to when facing from: -1, 0, 1 or 2.
func QuarterTurns(from, to Direction) int {
	t := int((to - from + 4) % 4)
	if t == 3 {
		return -1
	}
	return t
}

// Between derives the direction of the step from a to b. The vertical
// decrease is checked first, then horizontal increase, vertical increase and
// horizontal decrease. ok is false when a and b are the same cell.
func Between(a, b Cell) (d Direction, ok bool) {
	switch {
	case b.Row < a.Row:
		return UP, true
	case b.Col > a.Col:
		return RIGHT, true
	case b.Row > a.Row:
		return DOWN, true
	case b.Col < a.Col:
		return LEFT, true
	}
	return UP, false
}
