// Package robot provides the hardware abstractions for the sorter rover:
// the downward color sensor, the forward distance sensor, the two-wheel
// drive train, and the hub's display/speaker.
package robot

import (
	"context"
	"errors"
)

// ErrNoReading is returned by sensor reads when the sensor has no valid
// value this instant (object out of range, color not recognized). Callers
// treat it as "no data", not as a failure.
var ErrNoReading = errors.New("robot: no reading")

// Side identifies a wheel of the drive train.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Color is a discrete color as reported by the color sensor firmware.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorBlack
	ColorWhite
)

var colorNames = map[Color]string{
	ColorNone:   "NONE",
	ColorRed:    "RED",
	ColorGreen:  "GREEN",
	ColorYellow: "YELLOW",
	ColorBlue:   "BLUE",
	ColorBlack:  "BLACK",
	ColorWhite:  "WHITE",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "NONE"
}

// ParseColor maps a color name (as printed by the sensor firmware or the
// controller board) back to a Color. Unknown names map to ColorNone.
func ParseColor(name string) Color {
	for c, n := range colorNames {
		if n == name {
			return c
		}
	}
	return ColorNone
}

// Icon is a pictogram shown on the hub's LED matrix.
type Icon int

const (
	IconSquare Icon = iota
	IconCross
)

func (i Icon) String() string {
	if i == IconSquare {
		return "SQUARE"
	}
	return "CROSS"
}

// Sensors reads the rover's sensor suite. Implementations return
// ErrNoReading when a sensor has nothing useful this instant.
type Sensors interface {
	// ReadColor returns the firmware's discrete color verdict.
	ReadColor(ctx context.Context) (Color, error)
	// ReadReflection returns surface reflectance, 0-100 percent.
	ReadReflection(ctx context.Context) (int, error)
	// ReadDistance returns the forward distance in millimeters.
	ReadDistance(ctx context.Context) (int, error)
}

// Drive actuates the two-wheel drive train. Speeds are in wheel degrees
// per second; negative values reverse.
type Drive interface {
	// Run drives both wheels continuously until the next command.
	Run(ctx context.Context, leftSpeed, rightSpeed int) error
	// RunAngle turns one wheel by the given angle. With wait set the call
	// blocks until the maneuver completes; with brake set the wheel holds
	// at the end instead of coasting.
	RunAngle(ctx context.Context, side Side, speed, degrees int, brake, wait bool) error
	// Stop stops both wheels.
	Stop(ctx context.Context) error
}

// Signals drives the hub's audio/visual outputs.
type Signals interface {
	Beep(ctx context.Context, freqHz, durationMs int) error
	Display(ctx context.Context, text string) error
	ShowIcon(ctx context.Context, icon Icon) error
	SetVolume(ctx context.Context, percent int) error
}

// NopSignals discards all audio/visual output. Used for headless runs and
// hardware backends without a hub display.
type NopSignals struct{}

func (NopSignals) Beep(context.Context, int, int) error { return nil }
func (NopSignals) Display(context.Context, string) error { return nil }
func (NopSignals) ShowIcon(context.Context, Icon) error { return nil }
func (NopSignals) SetVolume(context.Context, int) error { return nil }
