package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten"
	"github.com/hajimehoshi/ebiten/ebitenutil"
	"github.com/hajimehoshi/ebiten/inpututil"
	"github.com/hajimehoshi/ebiten/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/layout"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/motion"
	"github.com/zucenko/gridbot/settings"
)

// one frame at ebiten's fixed 60 ticks per second
const dt = float32(1.0 / 60)

var (
	COLOR_EMPTY      = color.RGBA{255, 255, 255, 255}
	COLOR_SELECTED   = color.RGBA{0, 0, 0, 255}
	COLOR_SELECTABLE = color.RGBA{60, 200, 90, 255}
	COLOR_GRID       = color.RGBA{200, 200, 200, 255}
	COLOR_ARROW      = color.RGBA{40, 90, 230, 255}
	COLOR_BOT        = color.RGBA{230, 60, 40, 255}
	COLOR_PANEL      = color.RGBA{70, 70, 70, 255}
	COLOR_BUTTON     = color.RGBA{110, 110, 110, 255}
	COLOR_TEXT       = color.White
)

// StrokeSource represents a input device to provide strokes.
type StrokeSource interface {
	Position() (int, int)
	IsJustReleased() bool
}

// MouseStrokeSource is a StrokeSource implementation of mouse.
type MouseStrokeSource struct{}

func (m *MouseStrokeSource) Position() (int, int) {
	return ebiten.CursorPosition()
}

func (m *MouseStrokeSource) IsJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

// TouchStrokeSource is a StrokeSource implementation of touch.
type TouchStrokeSource struct {
	ID int
}

func (t *TouchStrokeSource) Position() (int, int) {
	return ebiten.TouchPosition(t.ID)
}

func (t *TouchStrokeSource) IsJustReleased() bool {
	return inpututil.IsTouchJustReleased(t.ID)
}

// Stroke follows one press from touch down to release. While it is over the
// grid every cell it enters is offered to the path, so a path can be drawn in
// one drag.
type Stroke struct {
	source StrokeSource

	initX, initY       int
	currentX, currentY int
	lastCell           model.Cell

	released bool
}

func NewStroke(source StrokeSource) *Stroke {
	cx, cy := source.Position()
	return &Stroke{
		source:   source,
		initX:    cx,
		initY:    cy,
		currentX: cx,
		currentY: cy,
		lastCell: model.NoCell,
	}
}

func (s *Stroke) Update() {
	if s.released {
		return
	}
	if s.source.IsJustReleased() {
		s.released = true
		return
	}
	s.currentX, s.currentY = s.source.Position()
}

func (s *Stroke) IsReleased() bool {
	return s.released
}

func (s *Stroke) Position() (int, int) {
	return s.currentX, s.currentY
}

type Game struct {
	Layout       *layout.Layout
	Controller   *control.Controller
	Driver       *motion.Driver
	SettingsFile string

	strokes map[*Stroke]struct{}
	Flashes map[*gween.Tween]*Flash
	Font    font.Face
	BigFont font.Face
}

func NewGame(lay *layout.Layout, grid *model.Grid, st settings.Settings, countdown float32, settingsFile string) (*Game, error) {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	g := &Game{
		Layout:       lay,
		Driver:       motion.NewDriver(grid.CurrentCell(), model.UP),
		SettingsFile: settingsFile,
		strokes:      map[*Stroke]struct{}{},
		Flashes:      make(map[*gween.Tween]*Flash),
		Font:         truetype.NewFace(tt, &truetype.Options{Size: 14, DPI: 72, Hinting: font.HintingFull}),
		BigFont:      truetype.NewFace(tt, &truetype.Options{Size: 48, DPI: 72, Hinting: font.HintingFull}),
	}
	g.Controller = control.New(grid, st, g.Driver, countdown)
	g.Driver.OnDone(func(model.Step) {
		g.Controller.StepDone()
	})
	g.Controller.OnChange(func(s control.UIState) {
		switch s {
		case control.IDLE, control.COUNTING:
			g.Driver.Place(grid.CurrentCell(), model.UP)
		}
	})
	return g, nil
}

// press handles a stroke position: grid cells while editing, nothing else.
func (g *Game) press(s *Stroke) {
	if g.Controller.State() != control.IDLE {
		return
	}
	row, col, ok := g.Layout.CellAt(s.Position())
	if !ok {
		return
	}
	c := model.Cell{Row: row, Col: col}
	if c == s.lastCell {
		return
	}
	s.lastCell = c
	if g.Controller.Grid().Activated(row, col) {
		return
	}
	if err := g.Controller.Select(row, col); err != nil {
		g.flash(c, 1, 0.2, 0.2)
		return
	}
	g.flash(c, 0.2, 0.5, 1)
}

// release handles taps on buttons; a tap counts where the finger leaves.
func (g *Game) release(s *Stroke) {
	x, y := s.Position()
	c := g.Controller
	if c.State() == control.SETTINGS {
		b, ok := layout.ButtonAt(g.Layout.Menu, x, y)
		if !ok {
			return
		}
		switch b.ID {
		case layout.ADJUST:
			c.AdjustSetting(b.Option, b.Delta)
		case layout.BACK:
			c.CloseSettings()
			if err := settings.Save(g.SettingsFile, c.Settings()); err != nil {
				log.Warnf("settings not saved: %v", err)
			}
		}
		return
	}
	if c.State() == control.COMPLETE {
		c.Dismiss()
		return
	}
	b, ok := layout.ButtonAt(g.Layout.Main, x, y)
	if !ok {
		return
	}
	log.Debugf("button %s in %s", b.ID.Name(), c.State().Name())
	switch b.ID {
	case layout.CLEAR:
		c.Clear()
	case layout.RUN:
		if c.State() == control.IDLE {
			c.Run()
		} else {
			c.Stop()
		}
	case layout.SETTINGS:
		c.OpenSettings()
	}
}

func (g *Game) update(screen *ebiten.Image) error {
	g.Controller.Update(dt)
	g.Driver.Update(dt)
	g.updateFlashes(dt)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.strokes[NewStroke(&MouseStrokeSource{})] = struct{}{}
	}
	for _, id := range inpututil.JustPressedTouchIDs() {
		g.strokes[NewStroke(&TouchStrokeSource{id})] = struct{}{}
	}
	for s := range g.strokes {
		s.Update()
		if s.IsReleased() {
			g.release(s)
			delete(g.strokes, s)
			continue
		}
		g.press(s)
	}

	if ebiten.IsDrawingSkipped() {
		return nil
	}
	g.draw(screen)
	return nil
}

func (g *Game) draw(screen *ebiten.Image) {
	screen.Fill(COLOR_PANEL)
	if g.Controller.State() == control.SETTINGS {
		g.drawSettings(screen)
		return
	}
	g.drawGrid(screen)
	g.drawBot(screen)
	g.drawButtons(screen)

	v := g.Controller.View()
	switch v.State {
	case control.COUNTING:
		g.drawCentered(screen, fmt.Sprintf("%d", int(math.Ceil(float64(v.Remaining)))), g.BigFont, COLOR_BOT)
	case control.COMPLETE:
		g.drawCentered(screen, "DONE", g.BigFont, COLOR_ARROW)
	}
	ebitenutil.DebugPrintAt(screen, v.State.Name(), g.Layout.Width-g.Layout.PanelWidth+4, g.Layout.Height-16)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	lay := g.Layout
	grid := g.Controller.Grid()
	selectable := map[model.Cell]bool{}
	if g.Controller.State() == control.IDLE {
		for _, c := range grid.Selectable() {
			selectable[c] = true
		}
	}
	for row := 0; row < lay.Rows; row++ {
		for col := 0; col < lay.Cols; col++ {
			r := lay.CellRect(row, col)
			fill := COLOR_EMPTY
			switch {
			case grid.Activated(row, col):
				fill = COLOR_SELECTED
			case selectable[model.Cell{Row: row, Col: col}]:
				fill = COLOR_SELECTABLE
			}
			ebitenutil.DrawRect(screen, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), fill)
		}
	}
	for _, f := range g.Flashes {
		r := lay.CellRect(f.cell.Row, f.cell.Col)
		ebitenutil.DrawRect(screen, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), color.RGBA{
			R: uint8(255 * f.R), G: uint8(255 * f.G), B: uint8(255 * f.B), A: uint8(200 * f.alpha)})
	}
	for row := 0; row <= lay.Rows; row++ {
		y := float64(row * lay.CellSize)
		ebitenutil.DrawLine(screen, 0, y, float64(lay.GridWidth()), y, COLOR_GRID)
	}
	for col := 0; col <= lay.Cols; col++ {
		x := float64(col * lay.CellSize)
		ebitenutil.DrawLine(screen, x, 0, x, float64(lay.GridHeight()), COLOR_GRID)
	}

	path := grid.Path()
	for i := 0; i+1 < len(path); i++ {
		g.drawArrow(screen, path[i], path[i+1])
	}
}

func (g *Game) drawArrow(screen *ebiten.Image, from, to model.Cell) {
	x1, y1 := g.Layout.CellCenter(float32(from.Row), float32(from.Col))
	x2, y2 := g.Layout.CellCenter(float32(to.Row), float32(to.Col))
	ebitenutil.DrawLine(screen, float64(x1), float64(y1), float64(x2), float64(y2), COLOR_ARROW)
	d, _ := model.Between(from, to)
	dr, dc := d.Delta()
	head := float64(g.Layout.CellSize) / 5
	// the two barbs point back from the tip, spread across the step
	bx, by := float64(x2)-float64(dc)*head, float64(y2)-float64(dr)*head
	ebitenutil.DrawLine(screen, float64(x2), float64(y2), bx+float64(dr)*head/2, by+float64(dc)*head/2, COLOR_ARROW)
	ebitenutil.DrawLine(screen, float64(x2), float64(y2), bx-float64(dr)*head/2, by-float64(dc)*head/2, COLOR_ARROW)
}

func (g *Game) drawBot(screen *ebiten.Image) {
	row, col := g.Driver.Position()
	x, y := g.Layout.CellCenter(row, col)
	size := float64(g.Layout.CellSize) / 2
	ebitenutil.DrawRect(screen, float64(x)-size/2, float64(y)-size/2, size, size, COLOR_BOT)
	angle := float64(g.Driver.Bearing()) * math.Pi / 2
	ebitenutil.DrawLine(screen, float64(x), float64(y),
		float64(x)+math.Sin(angle)*size, float64(y)-math.Cos(angle)*size, COLOR_SELECTED)
}

func (g *Game) drawButtons(screen *ebiten.Image) {
	running := g.Controller.State() == control.COUNTING || g.Controller.State() == control.RUNNING
	for _, b := range g.Layout.Main {
		label := b.Label
		if b.ID == layout.RUN && running {
			label = "STOP"
		}
		g.drawButton(screen, b.Rect, label)
	}
}

func (g *Game) drawButton(screen *ebiten.Image, r layout.Rect, label string) {
	ebitenutil.DrawRect(screen, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), COLOR_BUTTON)
	g.drawLabel(screen, r, label, g.Font, COLOR_TEXT)
}

func (g *Game) drawLabel(screen *ebiten.Image, r layout.Rect, label string, face font.Face, clr color.Color) {
	cx, cy := r.Center()
	w := font.MeasureString(face, label).Round()
	h := face.Metrics().Ascent.Round()
	text.Draw(screen, label, face, cx-w/2, cy+h/2, clr)
}

func (g *Game) drawCentered(screen *ebiten.Image, s string, face font.Face, clr color.Color) {
	lay := g.Layout
	g.drawLabel(screen, layout.Rect{W: lay.GridWidth(), H: lay.GridHeight()}, s, face, clr)
}

func (g *Game) drawSettings(screen *ebiten.Image) {
	st := g.Controller.Settings()
	for _, option := range settings.Options {
		r := g.Layout.Values[option]
		g.drawLabel(screen, layout.Rect{X: r.X, Y: r.Y - r.H/2 - 4, W: r.W, H: r.H / 2}, option.Name(), g.Font, COLOR_GRID)
		g.drawButton(screen, r, st.ValueLabel(option))
	}
	for _, b := range g.Layout.Menu {
		g.drawButton(screen, b.Rect, b.Label)
	}
}

func main() {
	flag.Parse()
	cfg, lay, grid, st, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	game, err := NewGame(lay, grid, st, float32(cfg.Countdown), cfg.SettingsFile)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("grid %dx%d on %dx%d", lay.Rows, lay.Cols, lay.Width, lay.Height)
	if err := ebiten.Run(game.update, lay.Width, lay.Height, 2, "gridbot"); err != nil {
		log.Fatal(err)
	}
}
