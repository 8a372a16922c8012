package motion

import (
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

// Driver simulates the device: each step is played as a queue of tweened
// actions and onDone fires when the last one finishes. Update must be called
// from the same loop that owns the grid.
type Driver struct {
	state    DriveState
	heading  model.Direction
	at       model.Cell
	step     model.Step
	current  Action
	queue    []Action
	tween    *gween.Tween
	progress float32
	onDone   func(model.Step)
}

func NewDriver(start model.Cell, heading model.Direction) *Driver {
	return &Driver{at: start, heading: heading}
}

// OnDone sets the completion callback. It may call Begin again.
func (d *Driver) OnDone(f func(model.Step)) {
	d.onDone = f
}

// Begin plans and starts the actions for step.
func (d *Driver) Begin(step model.Step, s settings.Settings) {
	d.step = step
	d.at = step.Cell
	d.queue = Plan(d.heading, step.Direction, TimingFor(s))
	log.Debugf("Driver.Begin index:%d %s %d actions", step.Index, step.Direction.Name(), len(d.queue))
	d.next()
}

// Stop drops the remaining actions. The device stays where it is and no
// completion is reported.
func (d *Driver) Stop() {
	d.queue = nil
	d.tween = nil
	d.progress = 0
	d.state = STOPPED
}

// Place puts the device on c facing heading, e.g. after the path is reset.
func (d *Driver) Place(c model.Cell, heading model.Direction) {
	d.Stop()
	d.at = c
	d.heading = heading
}

// Update advances the current action by dt seconds.
func (d *Driver) Update(dt float32) {
	if d.state == STOPPED || d.tween == nil {
		return
	}
	current, finished := d.tween.Update(dt)
	d.progress = current
	if !finished {
		return
	}
	switch d.current.Kind {
	case TURN:
		d.heading = d.step.Direction
	case DRIVE:
		if d.step.Next.Valid() {
			d.at = d.step.Next
		}
	}
	d.next()
}

func (d *Driver) next() {
	d.progress = 0
	if len(d.queue) == 0 {
		d.state = STOPPED
		d.tween = nil
		if d.onDone != nil {
			d.onDone(d.step)
		}
		return
	}
	d.current, d.queue = d.queue[0], d.queue[1:]
	if d.current.Kind == TURN {
		d.state = TURNING
	} else {
		d.state = DRIVING
	}
	d.tween = gween.New(0, 1, float32(d.current.Duration.Seconds()), ease.InOutQuad)
}

func (d *Driver) State() DriveState { return d.state }
func (d *Driver) Heading() model.Direction { return d.heading }
func (d *Driver) Progress() float32 { return d.progress }
func (d *Driver) Action() Action { return d.current }
func (d *Driver) Cell() model.Cell { return d.at }
func (d *Driver) CurrentStep() model.Step { return d.step }

// Position is the interpolated grid position, in cells, for drawing.
func (d *Driver) Position() (row, col float32) {
	row, col = float32(d.at.Row), float32(d.at.Col)
	if d.state == DRIVING && d.step.Next.Valid() {
		row += float32(d.step.Next.Row-d.at.Row) * d.progress
		col += float32(d.step.Next.Col-d.at.Col) * d.progress
	}
	return
}

// Bearing is the heading in quarter turns clockwise from UP, interpolated
// while turning.
func (d *Driver) Bearing() float32 {
	if d.state == TURNING {
		return float32(d.heading) + float32(d.current.QuarterTurns)*d.progress
	}
	return float32(d.heading)
}
