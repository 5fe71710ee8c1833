package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickbot/sortbot/pkg/nav"
)

func TestLoad_EmptyConfigKeepsDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, nav.DefaultConfig(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("tolerance", 1.5)
	v.Set("sample-ms", 50)
	v.Set("confirm-hits", 3)
	v.Set("turn.angle", 400)
	v.Set("policy", "nearest")
	v.Set("fallback-scenario", "ok")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, cfg.Tolerance, 1e-9)
	assert.Equal(t, 50*time.Millisecond, cfg.SamplePeriod)
	assert.Equal(t, 3, cfg.ConfirmHits)
	assert.Equal(t, 400, cfg.TurnAngle)
	assert.Equal(t, nav.PolicyNearest, cfg.Policy)
	assert.Equal(t, nav.ScenarioRecyclingOK, cfg.FallbackScenario)
	// Untouched keys keep their defaults.
	assert.Equal(t, 200, cfg.DriveSpeed)
}

func TestLoad_ThreeColorBoardNeedsItsCalibration(t *testing.T) {
	v := viper.New()
	v.Set("board", "three-color")

	// The default table has no BLUE constant.
	_, err := Load(v)
	require.Error(t, err)

	v.Set("calibration.green", 11.0)
	v.Set("calibration.blue", 8.0)
	v.Set("calibration.red", 5.0)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, nav.ThreeColorBoard(), cfg.Board)
	assert.InDelta(t, 8.0, cfg.Calibration[nav.ZoneBlue], 1e-9)
}

func TestLoad_PartialCalibrationTableRejected(t *testing.T) {
	v := viper.New()
	v.Set("calibration.green", 11.0)

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoad_BadValues(t *testing.T) {
	v := viper.New()
	v.Set("board", "hexagonal")
	_, err := Load(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("fallback-scenario", "SHRED_IT")
	_, err = Load(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("confirm-hits", 0)
	_, err = Load(v)
	assert.Error(t, err)
}
