// Package layout maps display pixels to grid cells and on-screen buttons.
// The grid fills the left part of the display from the top left corner; the
// button panel takes the right PanelWidth pixels.
package layout

import (
	"fmt"

	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

type Rect struct {
	X, Y, W, H int
}

// Contains is inclusive on all four edges.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

type ButtonID int

const (
	NONE ButtonID = iota
	CLEAR
	RUN
	SETTINGS
	ADJUST
	BACK
)

func (b ButtonID) Name() string {
	switch b {
	case NONE:
		return "NONE"
	case CLEAR:
		return "CLEAR"
	case RUN:
		return "RUN"
	case SETTINGS:
		return "SETTINGS"
	case ADJUST:
		return "ADJUST"
	case BACK:
		return "BACK"
	default:
		return fmt.Sprintf("n/a:%d", b)
	}
}

// Button is a touch target. Option and Delta are only set for ADJUST arrows.
type Button struct {
	ID     ButtonID
	Label  string
	Rect   Rect
	Option settings.Option
	Delta  int
}

const (
	margin    = 8
	arrowSize = 30
	rowHeight = 60
)

type Layout struct {
	Width, Height int
	PanelWidth    int
	CellSize      int
	Rows, Cols    int

	// Main is the panel next to the grid, Menu the settings screen.
	Main []Button
	Menu []Button
	// Values holds the value box of each option on the settings screen.
	Values map[settings.Option]Rect
}

// New lays out a width x height display. It fails like model.Dimensions
// when the area left for the grid is too small.
func New(width, height, panelWidth, cellSize int) (*Layout, error) {
	rows, cols, err := model.Dimensions(width-panelWidth, height, cellSize)
	if err != nil {
		return nil, err
	}
	l := &Layout{
		Width:      width,
		Height:     height,
		PanelWidth: panelWidth,
		CellSize:   cellSize,
		Rows:       rows,
		Cols:       cols,
		Values:     make(map[settings.Option]Rect),
	}
	l.placeMain()
	l.placeMenu()
	return l, nil
}

func (l *Layout) placeMain() {
	x := l.Width - l.PanelWidth + margin
	w := l.PanelWidth - 2*margin
	h := (l.Height - 4*margin) / 3
	ids := []ButtonID{CLEAR, SETTINGS, RUN}
	labels := []string{"CLEAR", "MENU", "GO"}
	for i, id := range ids {
		l.Main = append(l.Main, Button{
			ID:    id,
			Label: labels[i],
			Rect:  Rect{X: x, Y: margin + i*(h+margin), W: w, H: h},
		})
	}
}

func (l *Layout) placeMenu() {
	for i, option := range settings.Options {
		y := arrowSize + i*rowHeight
		left := Rect{X: margin, Y: y, W: arrowSize, H: arrowSize}
		right := Rect{X: l.Width - margin - arrowSize, Y: y, W: arrowSize, H: arrowSize}
		l.Values[option] = Rect{
			X: left.X + arrowSize + margin,
			Y: y,
			W: right.X - left.X - arrowSize - 2*margin,
			H: arrowSize,
		}
		l.Menu = append(l.Menu,
			Button{ID: ADJUST, Label: "<", Rect: left, Option: option, Delta: -1},
			Button{ID: ADJUST, Label: ">", Rect: right, Option: option, Delta: 1},
		)
	}
	w := l.Width / 3
	l.Menu = append(l.Menu, Button{
		ID:    BACK,
		Label: "BACK",
		Rect:  Rect{X: (l.Width - w) / 2, Y: l.Height - margin - arrowSize - margin, W: w, H: arrowSize + margin},
	})
}

// GridWidth is the pixel width covered by cells, border included.
func (l *Layout) GridWidth() int {
	return l.Cols*l.CellSize + 1
}

func (l *Layout) GridHeight() int {
	return l.Rows*l.CellSize + 1
}

// CellAt resolves a touch to a cell; ok is false outside the grid.
func (l *Layout) CellAt(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	row, col = y/l.CellSize, x/l.CellSize
	if row >= l.Rows || col >= l.Cols {
		return 0, 0, false
	}
	return row, col, true
}

func (l *Layout) CellRect(row, col int) Rect {
	return Rect{X: col * l.CellSize, Y: row * l.CellSize, W: l.CellSize, H: l.CellSize}
}

// CellCenter takes fractional cells so moving sprites can be placed.
func (l *Layout) CellCenter(row, col float32) (x, y float32) {
	half := float32(l.CellSize) / 2
	return col*float32(l.CellSize) + half, row*float32(l.CellSize) + half
}

// ButtonAt returns the first of buttons containing (x, y).
func ButtonAt(buttons []Button, x, y int) (Button, bool) {
	for _, b := range buttons {
		if b.Rect.Contains(x, y) {
			return b, true
		}
	}
	return Button{}, false
}
