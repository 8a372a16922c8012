// Package motion turns path steps into timed turn and drive actions.
package motion

import (
	"fmt"
	"time"

	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

type DriveState int

const (
	STOPPED DriveState = iota
	TURNING
	DRIVING
)

func (s DriveState) Name() string {
	switch s {
	case STOPPED:
		return "STOPPED"
	case TURNING:
		return "TURNING"
	case DRIVING:
		return "DRIVING"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

type Kind int

const (
	TURN Kind = iota
	DRIVE
)

// Action is one physical move. QuarterTurns is signed, clockwise positive.
type Action struct {
	Kind         Kind
	QuarterTurns int
	Duration     time.Duration
}

// Timing is how long one quarter turn and one cell of driving take.
type Timing struct {
	QuarterTurn time.Duration
	Drive       time.Duration
}

const (
	baseQuarterTurn = 600 * time.Millisecond
	baseDrive       = time.Second
)

var (
	speedScale    = map[settings.Speed]float64{settings.SPEED_SLOW: 1.5, settings.SPEED_STANDARD: 1, settings.SPEED_FAST: 0.6}
	distanceScale = map[settings.Distance]float64{settings.DISTANCE_COMPACT: 0.6, settings.DISTANCE_STANDARD: 1, settings.DISTANCE_EXTENDED: 1.5}
)

// TimingFor scales the base timing: speed shortens both turns and drives,
// distance lengthens drives only.
func TimingFor(s settings.Settings) Timing {
	speed, ok := speedScale[s.Speed]
	if !ok {
		speed = 1
	}
	distance, ok := distanceScale[s.Distance]
	if !ok {
		distance = 1
	}
	return Timing{
		QuarterTurn: time.Duration(float64(baseQuarterTurn) * speed),
		Drive:       time.Duration(float64(baseDrive) * speed * distance),
	}
}

// Plan returns the actions that take a device facing heading one cell in
// direction dir: an optional turn, then a drive.
func Plan(heading, dir model.Direction, t Timing) []Action {
	actions := make([]Action, 0, 2)
	if turns := model.QuarterTurns(heading, dir); turns != 0 {
		n := turns
		if n < 0 {
			n = -n
		}
		actions = append(actions, Action{
			Kind:         TURN,
			QuarterTurns: turns,
			Duration:     time.Duration(n) * t.QuarterTurn,
		})
	}
	return append(actions, Action{Kind: DRIVE, Duration: t.Drive})
}
