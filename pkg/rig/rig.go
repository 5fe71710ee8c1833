// Package rig assembles a hardware backend into the sensor, drive, and
// signal interfaces the navigator consumes.
package rig

import (
	"context"
	"fmt"

	"github.com/brickbot/sortbot/pkg/nav"
	"github.com/brickbot/sortbot/pkg/robot"
)

// Options selects and addresses a hardware backend.
type Options struct {
	Backend   string // brick, feetech, mock
	BrickPort string
	WheelPort string
	LeftID    int
	RightID   int
	Board     nav.Board // used by the mock backend's scripted board
}

// Rig is an assembled set of robot interfaces plus their teardown.
type Rig struct {
	Sensors robot.Sensors
	Drive   robot.Drive
	Signals robot.Signals

	closers []func() error
}

// Close releases the underlying ports in reverse open order.
func (r *Rig) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open builds the rig for the selected backend.
//
//   - brick: the controller board provides sensors, drive, and signals
//     over one serial port.
//   - feetech: wheels on a feetech servo bus, sensors and signals from
//     the controller board.
//   - mock: scripted sensors simulating one sweep across the board; used
//     for dry runs and the monitor demo.
func Open(ctx context.Context, opts Options) (*Rig, error) {
	switch opts.Backend {
	case "", "brick":
		port, err := robot.OpenBrickPort(opts.BrickPort)
		if err != nil {
			return nil, fmt.Errorf("brick backend: %w", err)
		}
		return &Rig{
			Sensors: port,
			Drive:   port,
			Signals: port,
			closers: []func() error{port.Close},
		}, nil

	case "feetech":
		port, err := robot.OpenBrickPort(opts.BrickPort)
		if err != nil {
			return nil, fmt.Errorf("feetech backend sensors: %w", err)
		}
		drive, err := robot.NewFeetechDrive(ctx, robot.FeetechConfig{
			Port:    opts.WheelPort,
			LeftID:  opts.LeftID,
			RightID: opts.RightID,
		})
		if err != nil {
			port.Close()
			return nil, fmt.Errorf("feetech backend wheels: %w", err)
		}
		return &Rig{
			Sensors: port,
			Drive:   drive,
			Signals: port,
			closers: []func() error{port.Close, drive.Close},
		}, nil

	case "mock":
		return &Rig{
			Sensors: robot.NewMockSensors(demoScript(opts.Board)...),
			Drive:   &robot.RecordingDrive{},
			Signals: robot.NopSignals{},
		}, nil

	default:
		return nil, fmt.Errorf("unknown hardware backend %q", opts.Backend)
	}
}

// demoScript simulates one sweep across the board: blank floor out of the
// start zone, then each zone in driving order with gaps between them. The
// final zone repeats once the script runs out.
func demoScript(board nav.Board) []robot.MockSample {
	colorOf := func(z nav.Zone) robot.Color {
		for c, zone := range board.Colors {
			if zone == z {
				return c
			}
		}
		return robot.ColorNone
	}

	var script []robot.MockSample
	add := func(c robot.Color, n int) {
		for i := 0; i < n; i++ {
			script = append(script, robot.MockSample{
				Color:        c,
				Reflection:   20,
				ReflectionOK: true,
			})
		}
	}

	add(robot.ColorNone, 60)
	add(colorOf(board.First()), 40)
	add(robot.ColorNone, 15)
	add(colorOf(board.Middle()), 40)
	add(robot.ColorNone, 15)
	add(colorOf(board.Last()), 40)
	return script
}
