// Package config holds the resolved CLI configuration values and the
// translation from the viper config surface to the navigation tuning.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/brickbot/sortbot/pkg/nav"
)

// CLI flag values, bound by the root command.
var (
	LogLevel  string // zap level name
	LogFormat string // console vs json
	Backend   string // hardware backend: brick, feetech, mock
	BrickPort string // serial port of the controller board
	WheelPort string // serial port of the feetech wheel bus
	LeftID    int    // left wheel servo ID
	RightID   int    // right wheel servo ID
)

// Load builds the navigation tuning from the viper config surface,
// starting from the reference-board defaults and overriding only keys the
// deployment actually set.
func Load(v *viper.Viper) (nav.Config, error) {
	cfg := nav.DefaultConfig()

	board, err := nav.BoardByName(v.GetString("board"))
	if err != nil {
		return cfg, err
	}
	cfg.Board = board

	policy, err := nav.PolicyByName(v.GetString("policy"))
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy

	if v.IsSet("calibration") {
		cal := make(map[nav.Zone]float64, len(board.Zones))
		for _, zone := range board.Zones {
			key := "calibration." + strings.ToLower(string(zone))
			if !v.IsSet(key) {
				return cfg, fmt.Errorf("calibration table is missing zone %s", zone)
			}
			cal[zone] = v.GetFloat64(key)
		}
		cfg.Calibration = cal
	}

	if v.IsSet("tolerance") {
		cfg.Tolerance = v.GetFloat64("tolerance")
	}
	if v.IsSet("valid-range.min") {
		cfg.ValidMin = v.GetFloat64("valid-range.min")
	}
	if v.IsSet("valid-range.max") {
		cfg.ValidMax = v.GetFloat64("valid-range.max")
	}
	if v.IsSet("filter-size") {
		cfg.FilterSize = v.GetInt("filter-size")
	}
	if v.IsSet("drive-speed") {
		cfg.DriveSpeed = v.GetInt("drive-speed")
	}
	if v.IsSet("turbo-speed") {
		cfg.TurboSpeed = v.GetInt("turbo-speed")
	}
	if v.IsSet("sample-ms") {
		cfg.SamplePeriod = time.Duration(v.GetInt("sample-ms")) * time.Millisecond
	}
	if v.IsSet("confirm-hits") {
		cfg.ConfirmHits = v.GetInt("confirm-hits")
	}
	if v.IsSet("warmup-samples") {
		cfg.WarmupSamples = v.GetInt("warmup-samples")
	}
	if v.IsSet("stop-distance-mm") {
		cfg.StopDistanceMM = v.GetInt("stop-distance-mm")
	}
	if v.IsSet("final-drive-angle") {
		cfg.FinalDriveAngle = v.GetInt("final-drive-angle")
	}
	if v.IsSet("turn.speed") {
		cfg.TurnSpeed = v.GetInt("turn.speed")
	}
	if v.IsSet("turn.angle") {
		cfg.TurnAngle = v.GetInt("turn.angle")
	}
	if v.IsSet("volume") {
		cfg.Volume = v.GetInt("volume")
	}
	if v.IsSet("fallback-scenario") {
		fallback, err := nav.MapCommand(v.GetString("fallback-scenario"), "")
		if err != nil {
			return cfg, fmt.Errorf("fallback-scenario: %w", err)
		}
		cfg.FallbackScenario = fallback
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
