// Package settings holds the device parameters the motion side scales its
// timing with. Values saturate at their bounds instead of wrapping.
package settings

import (
	"fmt"
	"strings"
)

type Option int

const (
	BRIGHTNESS Option = iota
	DRIVE_SPEED
	DRIVE_DISTANCE
)

// Options in menu order.
var Options = []Option{BRIGHTNESS, DRIVE_SPEED, DRIVE_DISTANCE}

type Speed int

const (
	SPEED_SLOW Speed = iota
	SPEED_STANDARD
	SPEED_FAST
)

type Distance int

const (
	DISTANCE_COMPACT Distance = iota
	DISTANCE_STANDARD
	DISTANCE_EXTENDED
)

const (
	MinBrightness     = 0
	MaxBrightness     = 100
	DefaultBrightness = 60
	BrightnessStep    = 10
)

var (
	optionLabels   = []string{"Brightness", "Drive Speed", "Drive Distance"}
	speedLabels    = []string{"Slow", "Standard", "Fast"}
	distanceLabels = []string{"Compact", "Standard", "Extended"}
)

type Settings struct {
	Brightness int
	Speed      Speed
	Distance   Distance
}

func Default() Settings {
	return Settings{
		Brightness: DefaultBrightness,
		Speed:      SPEED_STANDARD,
		Distance:   DISTANCE_STANDARD,
	}
}

func (s *Settings) Reset() {
	*s = Default()
}

func (s *Settings) SetBrightness(brightness int) {
	switch {
	case brightness < MinBrightness:
		brightness = MinBrightness
	case brightness > MaxBrightness:
		brightness = MaxBrightness
	}
	s.Brightness = brightness
}

func (s *Settings) AdjustBrightness(delta int) {
	s.SetBrightness(s.Brightness + delta)
}

// BrightnessPWM maps the brightness percentage to a 0..255 duty value.
func (s Settings) BrightnessPWM() int {
	return s.Brightness * 255 / MaxBrightness
}

func (s *Settings) IncreaseSpeed() {
	if s.Speed < SPEED_FAST {
		s.Speed++
	}
}

func (s *Settings) DecreaseSpeed() {
	if s.Speed > SPEED_SLOW {
		s.Speed--
	}
}

func (s *Settings) IncreaseDistance() {
	if s.Distance < DISTANCE_EXTENDED {
		s.Distance++
	}
}

func (s *Settings) DecreaseDistance() {
	if s.Distance > DISTANCE_COMPACT {
		s.Distance--
	}
}

// Adjust moves option one step up (direction > 0) or down (direction < 0).
func (s *Settings) Adjust(option Option, direction int) {
	if direction == 0 {
		return
	}
	switch option {
	case BRIGHTNESS:
		if direction > 0 {
			s.AdjustBrightness(BrightnessStep)
		} else {
			s.AdjustBrightness(-BrightnessStep)
		}
	case DRIVE_SPEED:
		if direction > 0 {
			s.IncreaseSpeed()
		} else {
			s.DecreaseSpeed()
		}
	case DRIVE_DISTANCE:
		if direction > 0 {
			s.IncreaseDistance()
		} else {
			s.DecreaseDistance()
		}
	}
}

// ValueLabel is the text shown next to option in the settings menu.
func (s Settings) ValueLabel(option Option) string {
	switch option {
	case BRIGHTNESS:
		return fmt.Sprintf("%d%%", s.Brightness)
	case DRIVE_SPEED:
		return s.Speed.Name()
	case DRIVE_DISTANCE:
		return s.Distance.Name()
	}
	return ""
}

func (o Option) Name() string {
	if o < 0 || int(o) >= len(optionLabels) {
		return fmt.Sprintf("n/a:%d", o)
	}
	return optionLabels[o]
}

func (s Speed) Name() string {
	if s < 0 || int(s) >= len(speedLabels) {
		return fmt.Sprintf("n/a:%d", s)
	}
	return speedLabels[s]
}

func (d Distance) Name() string {
	if d < 0 || int(d) >= len(distanceLabels) {
		return fmt.Sprintf("n/a:%d", d)
	}
	return distanceLabels[d]
}

// ParseOption accepts the label or a lower case, dash or underscore separated
// form of it ("drive-speed").
func ParseOption(s string) (Option, error) {
	i, err := lookup(optionLabels, s)
	return Option(i), err
}

func ParseSpeed(s string) (Speed, error) {
	i, err := lookup(speedLabels, s)
	return Speed(i), err
}

func ParseDistance(s string) (Distance, error) {
	i, err := lookup(distanceLabels, s)
	return Distance(i), err
}

func lookup(labels []string, s string) (int, error) {
	key := normalize(s)
	for i, l := range labels {
		if normalize(l) == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("settings: unknown value %q", s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
