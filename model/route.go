package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ParseRoute reads a route: one letter per step (U, R, D, L in any case)
// continuing from the end of the seed path. Whitespace is ignored and '#'
// comments out the rest of a line.
func ParseRoute(reader io.Reader) ([]Direction, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	dirs := make([]Direction, 0)
	line := 0
	for scanner.Scan() {
		line++
		s := scanner.Text()
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		for col, char := range s {
			if unicode.IsSpace(char) {
				continue
			}
			switch unicode.ToUpper(char) {
			case 'U':
				dirs = append(dirs, UP)
			case 'R':
				dirs = append(dirs, RIGHT)
			case 'D':
				dirs = append(dirs, DOWN)
			case 'L':
				dirs = append(dirs, LEFT)
			default:
				return nil, fmt.Errorf("%w: line %d col %d: unexpected %q", ErrBadRoute, line, col+1, char)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dirs, nil
}

// ApplyRoute resets g to the seed path and extends it step by step. If a
// step is rejected the grid is left at the seed path.
func ApplyRoute(g *Grid, dirs []Direction) error {
	g.ResetDefault()
	for i, d := range dirs {
		next := g.Last().Move(d)
		if err := g.TryAppend(next.Row, next.Col); err != nil {
			g.ResetDefault()
			return fmt.Errorf("%w: step %d %s: %v", ErrBadRoute, i+1, d.Name(), err)
		}
	}
	return nil
}

// ReadRoute parses a route from reader and applies it to g.
func ReadRoute(reader io.Reader, g *Grid) error {
	dirs, err := ParseRoute(reader)
	if err != nil {
		return err
	}
	return ApplyRoute(g, dirs)
}

// FormatRoute writes the path of g beyond the seed as route letters.
func FormatRoute(g *Grid) string {
	var b strings.Builder
	for i := 2; i < len(g.path); i++ {
		d, _ := Between(g.path[i-1], g.path[i])
		b.WriteByte(d.Letter())
	}
	return b.String()
}
