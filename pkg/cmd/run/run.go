// Package run implements the "sortbot run" command: one navigation run,
// STATUS lines on stdout for the upstream bridge.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/brickbot/sortbot/pkg/config"
	"github.com/brickbot/sortbot/pkg/log"
	"github.com/brickbot/sortbot/pkg/nav"
	"github.com/brickbot/sortbot/pkg/rig"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive the rover onto the zone selected by a bridge command",
		Long: `Maps an external command (e.g. RECYCLING_OK, ROUTE_TO_LANDFILL,
URGENT_INSPECTION) to a target zone and drives the rover onto it. Run
progress is reported as STATUS: lines on stdout, the shape the upstream
bridge scrapes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigation(command)
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "bridge command selecting the target zone")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

func runNavigation(command string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	scenario, err := nav.MapCommand(command, cfg.FallbackScenario)
	if err != nil {
		// Unrecognized command with no fallback configured: the run is
		// simply not started.
		return err
	}

	// SIGINT/SIGTERM cancel the run mid-drive; the navigator stops the
	// motors before returning.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hw, err := rig.Open(ctx, rig.Options{
		Backend:   config.Backend,
		BrickPort: config.BrickPort,
		WheelPort: config.WheelPort,
		LeftID:    config.LeftID,
		RightID:   config.RightID,
		Board:     cfg.Board,
	})
	if err != nil {
		return err
	}
	defer hw.Close()

	navigator, err := nav.New(cfg, scenario, hw.Drive, hw.Sensors, hw.Signals,
		nav.NewLineReporter(os.Stdout), log.L())
	if err != nil {
		return err
	}

	log.L().Info("starting navigation run",
		zap.String("command", command),
		zap.String("scenario", string(scenario)),
		zap.String("backend", config.Backend))

	return navigator.Run(ctx)
}
