// Package control sequences the device modes around one grid: editing the
// path, the countdown before a run, the run itself and the settings menu.
//
// A Controller is not safe for concurrent use; every front end drives it from
// a single loop.
package control

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

type UIState int

const (
	IDLE UIState = iota
	COUNTING
	RUNNING
	SETTINGS
	COMPLETE
)

func (s UIState) Name() string {
	switch s {
	case IDLE:
		return "IDLE"
	case COUNTING:
		return "COUNTING"
	case RUNNING:
		return "RUNNING"
	case SETTINGS:
		return "SETTINGS"
	case COMPLETE:
		return "COMPLETE"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// ErrBusy is returned for operations not allowed in the current state.
var ErrBusy = errors.New("control: not allowed in current state")

// Mover performs the physical part of a step and reports back through
// Controller.StepDone.
type Mover interface {
	Begin(step model.Step, s settings.Settings)
	Stop()
}

type Controller struct {
	state     UIState
	grid      *model.Grid
	settings  settings.Settings
	mover     Mover
	countdown float32
	remaining float32
	onChange  []func(UIState)
}

// New builds a controller in IDLE. countdown is the delay in seconds between
// Run and the first step.
func New(grid *model.Grid, s settings.Settings, mover Mover, countdown float32) *Controller {
	return &Controller{
		state:     IDLE,
		grid:      grid,
		settings:  s,
		mover:     mover,
		countdown: countdown,
	}
}

// OnChange registers a callback invoked after every state transition.
func (c *Controller) OnChange(f func(UIState)) {
	c.onChange = append(c.onChange, f)
}

func (c *Controller) setState(s UIState) {
	if s == c.state {
		return
	}
	log.Infof("Controller %s -> %s", c.state.Name(), s.Name())
	c.state = s
	for _, f := range c.onChange {
		f(s)
	}
}

func (c *Controller) State() UIState { return c.state }
func (c *Controller) Grid() *model.Grid { return c.grid }
func (c *Controller) Settings() settings.Settings { return c.settings }

// Remaining is the countdown left in seconds while COUNTING.
func (c *Controller) Remaining() float32 {
	return c.remaining
}

// Select extends the path with (row, col). Only allowed while editing.
func (c *Controller) Select(row, col int) error {
	if c.state != IDLE {
		return ErrBusy
	}
	if err := c.grid.TryAppend(row, col); err != nil {
		log.Debugf("Controller.Select rejected (%d,%d)", row, col)
		return err
	}
	return nil
}

// Clear stops any run and resets the path. It is allowed in every state.
func (c *Controller) Clear() {
	c.mover.Stop()
	c.grid.Clear()
	c.remaining = 0
	c.setState(IDLE)
}

// Run starts the countdown; with no countdown the first step is issued at once.
func (c *Controller) Run() error {
	if c.state != IDLE {
		return ErrBusy
	}
	c.grid.ResetCursor()
	c.remaining = c.countdown
	c.setState(COUNTING)
	if c.remaining <= 0 {
		c.start()
	}
	return nil
}

// Update advances the countdown by dt seconds.
func (c *Controller) Update(dt float32) {
	if c.state != COUNTING {
		return
	}
	c.remaining -= dt
	if c.remaining <= 0 {
		c.start()
	}
}

func (c *Controller) start() {
	c.remaining = 0
	c.setState(RUNNING)
	c.mover.Begin(c.grid.Step(), c.settings)
}

// StepDone is the pace-of-advance tick from the mover: the cursor moves on and
// the next step is issued, or the run completes. Ticks outside a run are
// ignored.
func (c *Controller) StepDone() {
	if c.state != RUNNING {
		log.Warnf("Controller.StepDone ignored in %s", c.state.Name())
		return
	}
	c.grid.Advance()
	if c.grid.IsPathComplete() {
		c.mover.Stop()
		c.setState(COMPLETE)
		return
	}
	c.mover.Begin(c.grid.Step(), c.settings)
}

// Stop aborts a countdown or run; the path is kept and the cursor rewound.
func (c *Controller) Stop() error {
	if c.state != COUNTING && c.state != RUNNING {
		return ErrBusy
	}
	c.mover.Stop()
	c.grid.ResetCursor()
	c.remaining = 0
	c.setState(IDLE)
	return nil
}

// Dismiss leaves COMPLETE for editing.
func (c *Controller) Dismiss() error {
	if c.state != COMPLETE {
		return ErrBusy
	}
	c.grid.ResetCursor()
	c.setState(IDLE)
	return nil
}

func (c *Controller) OpenSettings() error {
	if c.state != IDLE {
		return ErrBusy
	}
	c.setState(SETTINGS)
	return nil
}

func (c *Controller) CloseSettings() error {
	if c.state != SETTINGS {
		return ErrBusy
	}
	c.setState(IDLE)
	return nil
}

// AdjustSetting changes one setting from the settings menu.
func (c *Controller) AdjustSetting(option settings.Option, direction int) error {
	if c.state != SETTINGS {
		return ErrBusy
	}
	c.settings.Adjust(option, direction)
	return nil
}

// View is a read-only snapshot for renderers.
type View struct {
	State      UIState
	Rows, Cols int
	Path       []model.Cell
	Selectable []model.Cell
	Cursor     int
	Direction  model.Direction
	Complete   bool
	Remaining  float32
	Settings   settings.Settings
}

func (c *Controller) View() View {
	return View{
		State:      c.state,
		Rows:       c.grid.Rows(),
		Cols:       c.grid.Cols(),
		Path:       c.grid.Path(),
		Selectable: c.grid.Selectable(),
		Cursor:     c.grid.CursorIndex(),
		Direction:  c.grid.Direction(),
		Complete:   c.grid.IsPathComplete(),
		Remaining:  c.remaining,
		Settings:   c.settings,
	}
}
