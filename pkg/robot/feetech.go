package robot

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

const (
	ticksPerRev   = 4096
	ticksPerDeg   = float64(ticksPerRev) / 360.0
	chaseInterval = 50 * time.Millisecond
	angleTol      = 8 // ticks; close enough to call a RunAngle done
)

// FeetechDrive drives a differential pair of STS wheel servos on one bus.
// Continuous motion is emulated by chasing a position setpoint that
// advances at the requested speed each tick; the servos must be configured
// for multi-turn so setpoints can run ahead of the current position.
type FeetechDrive struct {
	bus     *feetech.Bus
	group   *feetech.ServoGroup
	leftID  int
	rightID int

	mu        sync.Mutex
	chaseStop context.CancelFunc
}

var _ Drive = (*FeetechDrive)(nil)

// FeetechConfig configures the wheel servo bus.
type FeetechConfig struct {
	Port    string
	LeftID  int
	RightID int
}

// NewFeetechDrive opens the servo bus and enables torque on both wheels.
func NewFeetechDrive(ctx context.Context, cfg FeetechConfig) (*FeetechDrive, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, cfg.LeftID, cfg.RightID)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable wheels: %w", err)
	}

	return &FeetechDrive{
		bus:     bus,
		group:   group,
		leftID:  cfg.LeftID,
		rightID: cfg.RightID,
	}, nil
}

// Close stops any running maneuver, disables torque and closes the bus.
func (d *FeetechDrive) Close() error {
	d.stopChase()
	_ = d.group.DisableAll(context.Background())
	return d.bus.Close()
}

func (d *FeetechDrive) stopChase() {
	d.mu.Lock()
	if d.chaseStop != nil {
		d.chaseStop()
		d.chaseStop = nil
	}
	d.mu.Unlock()
}

// Run advances both wheel setpoints continuously at the given speeds until
// the next drive command. The right servo is mounted mirrored, so its
// setpoint runs opposite to its forward direction.
func (d *FeetechDrive) Run(ctx context.Context, leftSpeed, rightSpeed int) error {
	d.stopChase()

	current, err := d.group.Positions(ctx)
	if err != nil {
		return fmt.Errorf("read wheel positions: %w", err)
	}

	chaseCtx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	d.chaseStop = cancel
	d.mu.Unlock()

	left := float64(current[d.leftID])
	right := float64(current[d.rightID])
	dt := chaseInterval.Seconds()

	go func() {
		ticker := time.NewTicker(chaseInterval)
		defer ticker.Stop()
		for {
			select {
			case <-chaseCtx.Done():
				return
			case <-ticker.C:
				left += float64(leftSpeed) * dt * ticksPerDeg
				right -= float64(rightSpeed) * dt * ticksPerDeg
				_ = d.group.SetPositions(chaseCtx, feetech.PositionMap{
					d.leftID:  int(math.Round(left)),
					d.rightID: int(math.Round(right)),
				})
			}
		}
	}()
	return nil
}

// RunAngle turns one wheel by the given angle. A position servo holds at
// the end of travel either way, so the brake flag has no extra effect here.
func (d *FeetechDrive) RunAngle(ctx context.Context, side Side, speed, degrees int, brake, wait bool) error {
	d.stopChase()

	current, err := d.group.Positions(ctx)
	if err != nil {
		return fmt.Errorf("read wheel positions: %w", err)
	}

	id := d.leftID
	delta := float64(degrees) * ticksPerDeg
	if speed < 0 {
		delta = -delta
		speed = -speed
	}
	if side == Right {
		id = d.rightID
		delta = -delta // mirrored mounting
	}
	target := current[id] + int(math.Round(delta))

	if err := d.group.SetPositions(ctx, feetech.PositionMap{id: target}); err != nil {
		return fmt.Errorf("set wheel target: %w", err)
	}
	if !wait {
		return nil
	}

	// Poll until the wheel settles on its target, bounded by the expected
	// travel time plus slack.
	deadline := time.Now().Add(travelTime(degrees, speed) + time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
		pos, err := d.group.Positions(ctx)
		if err != nil {
			return fmt.Errorf("poll wheel position: %w", err)
		}
		if abs(pos[id]-target) <= angleTol {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wheel %s did not reach target (at %d, want %d)", side, pos[id], target)
		}
	}
}

// Stop freezes both wheels at their current positions.
func (d *FeetechDrive) Stop(ctx context.Context) error {
	d.stopChase()

	current, err := d.group.Positions(ctx)
	if err != nil {
		return fmt.Errorf("read wheel positions: %w", err)
	}
	return d.group.SetPositions(ctx, feetech.PositionMap{
		d.leftID:  current[d.leftID],
		d.rightID: current[d.rightID],
	})
}

func travelTime(degrees, speed int) time.Duration {
	if speed <= 0 {
		return time.Second
	}
	return time.Duration(float64(abs(degrees))/float64(speed)*float64(time.Second)) + 200*time.Millisecond
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
