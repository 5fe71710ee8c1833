// Package calibrate implements "sortbot calibrate": a streaming readout
// of the color sensor used to pick the calibration constants for a new
// board or lighting setup.
package calibrate

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brickbot/sortbot/pkg/config"
	"github.com/brickbot/sortbot/pkg/nav"
	"github.com/brickbot/sortbot/pkg/rig"
	"github.com/brickbot/sortbot/pkg/robot"
)

// NewCalibrateCmd creates the calibrate command.
func NewCalibrateCmd() *cobra.Command {
	var periodMs int

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Stream sensor readings to pick calibration constants",
		Long: `Prints one line of sensor readings per interval. Place the rover on
each zone in turn, note the stable reflectance values, and put them in
the calibration table of the config file. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stream(cmd, time.Duration(periodMs)*time.Millisecond)
		},
	}

	cmd.Flags().IntVar(&periodMs, "period-ms", 200, "sampling interval in milliseconds")
	return cmd
}

func stream(cmd *cobra.Command, period time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hw, err := rig.Open(ctx, rig.Options{
		Backend:   config.Backend,
		BrickPort: config.BrickPort,
		WheelPort: config.WheelPort,
		LeftID:    config.LeftID,
		RightID:   config.RightID,
		Board:     nav.StandardBoard(),
	})
	if err != nil {
		return err
	}
	defer hw.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Starting color calibration, Ctrl-C to stop...")

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refl := "-"
			if r, err := hw.Sensors.ReadReflection(ctx); err == nil {
				refl = fmt.Sprintf("%d", r)
			}
			color := robot.ColorNone
			if c, err := hw.Sensors.ReadColor(ctx); err == nil {
				color = c
			}
			dist := "-"
			if d, err := hw.Sensors.ReadDistance(ctx); err == nil {
				dist = fmt.Sprintf("%d", d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "REF = %s  COLOR = %s  DIST = %s\n", refl, color, dist)
		}
	}
}
