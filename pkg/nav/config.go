package nav

import (
	"fmt"
	"time"
)

// Config carries every tunable of a navigation run. Nothing in the core
// is hardcoded; deployments supply calibration and tuning through the CLI
// config surface.
type Config struct {
	Board       Board
	Calibration map[Zone]float64 // reference reflectance per zone
	Tolerance   float64          // half-width of a zone's match window
	ValidMin    float64          // readings outside [min,max] are discarded
	ValidMax    float64
	Policy      Policy
	FilterSize  int // smoothing buffer length

	DriveSpeed      int           // normal forward speed, wheel deg/s
	TurboSpeed      int           // hazard-mode forward speed
	SamplePeriod    time.Duration // sensor sampling tick
	ConfirmHits     int           // consecutive target samples to confirm arrival
	WarmupSamples   int           // ticks with classification suppressed after start
	StopDistanceMM  int           // obstacle guard threshold
	FinalDriveAngle int           // deg of final push into the zone
	TurnSpeed       int           // deg/s during the 180 turn
	TurnAngle       int           // deg per wheel during the 180 turn
	SettleDelay     time.Duration // pause after the turn maneuver
	InitSettle      time.Duration // sensor stabilization before priming
	EffectPeriod    time.Duration // hazard siren half-cycle
	Volume          int           // speaker volume percent

	// FallbackScenario substitutes for unrecognized commands; empty means
	// unrecognized commands are rejected and no run starts.
	FallbackScenario Scenario
}

// DefaultConfig returns the tuning used on the reference board.
func DefaultConfig() Config {
	return Config{
		Board: StandardBoard(),
		Calibration: map[Zone]float64{
			ZoneRed:    6,
			ZoneGreen:  13,
			ZoneYellow: 16,
		},
		Tolerance:  2.0,
		ValidMin:   0,
		ValidMax:   25,
		Policy:     PolicyTolerance,
		FilterSize: 5,

		DriveSpeed:      200,
		TurboSpeed:      500,
		SamplePeriod:    30 * time.Millisecond,
		ConfirmHits:     5,
		WarmupSamples:   40,
		StopDistanceMM:  150,
		FinalDriveAngle: 250,
		TurnSpeed:       300,
		TurnAngle:       360,
		SettleDelay:     200 * time.Millisecond,
		InitSettle:      500 * time.Millisecond,
		EffectPeriod:    400 * time.Millisecond,
		Volume:          30,
	}
}

// Validate checks the tunables for values the state machine cannot run
// with.
func (c Config) Validate() error {
	if c.SamplePeriod <= 0 {
		return fmt.Errorf("sample period must be positive, got %v", c.SamplePeriod)
	}
	if c.ConfirmHits < 1 {
		return fmt.Errorf("confirm hits must be at least 1, got %d", c.ConfirmHits)
	}
	if c.WarmupSamples < 0 {
		return fmt.Errorf("warmup samples must not be negative, got %d", c.WarmupSamples)
	}
	if c.DriveSpeed <= 0 {
		return fmt.Errorf("drive speed must be positive, got %d", c.DriveSpeed)
	}
	if c.ValidMin > c.ValidMax {
		return fmt.Errorf("valid range is empty: [%v, %v]", c.ValidMin, c.ValidMax)
	}
	for _, z := range c.Board.Zones {
		if _, ok := c.Calibration[z]; !ok {
			return fmt.Errorf("missing calibration constant for zone %s", z)
		}
	}
	return nil
}

// speedFor returns the forward speed of a scenario's drive profile.
func (c Config) speedFor(s Scenario) int {
	if s.Hazard() && c.TurboSpeed > 0 {
		return c.TurboSpeed
	}
	return c.DriveSpeed
}
