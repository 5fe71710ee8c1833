package nav

import (
	"fmt"
	"math"

	"github.com/brickbot/sortbot/pkg/robot"
)

// Policy selects the reflectance fallback strategy of the classifier.
type Policy int

const (
	// PolicyTolerance accepts a reading only when it falls within the
	// tolerance window of exactly one calibration constant. A reading
	// matching two windows is ambiguous and yields no zone.
	PolicyTolerance Policy = iota
	// PolicyNearest picks the calibration constant with the smallest
	// absolute distance, ties broken by board declaration order.
	PolicyNearest
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "tolerance":
		return PolicyTolerance, nil
	case "nearest":
		return PolicyNearest, nil
	default:
		return 0, fmt.Errorf("unknown classifier policy %q", name)
	}
}

// Classifier maps one tick of sensor data to a board zone using two
// stages: the firmware's discrete color verdict when it names a board
// color, and otherwise the smoothed reflectance against the calibration
// table.
type Classifier struct {
	board       Board
	calibration map[Zone]float64
	tolerance   float64
	validMin    float64
	validMax    float64
	policy      Policy
}

// NewClassifier builds a classifier for the given board and calibration
// table. Every board zone must have a calibration constant.
func NewClassifier(board Board, calibration map[Zone]float64, tolerance, validMin, validMax float64, policy Policy) (*Classifier, error) {
	for _, z := range board.Zones {
		if _, ok := calibration[z]; !ok {
			return nil, fmt.Errorf("no calibration constant for zone %s", z)
		}
	}
	return &Classifier{
		board:       board,
		calibration: calibration,
		tolerance:   tolerance,
		validMin:    validMin,
		validMax:    validMax,
		policy:      policy,
	}, nil
}

// Classify returns the zone for this tick, or false when the reading is
// absent, out of range, or ambiguous.
func (c *Classifier) Classify(color robot.Color, smoothed float64) (Zone, bool) {
	if z, ok := c.board.FromColor(color); ok {
		return z, true
	}
	return c.classifyReflection(smoothed)
}

func (c *Classifier) classifyReflection(smoothed float64) (Zone, bool) {
	if smoothed < c.validMin || smoothed > c.validMax {
		return "", false
	}

	switch c.policy {
	case PolicyNearest:
		best := c.board.Zones[0]
		bestDist := math.Inf(1)
		for _, z := range c.board.Zones {
			d := math.Abs(smoothed - c.calibration[z])
			if d < bestDist {
				best, bestDist = z, d
			}
		}
		return best, true

	default: // PolicyTolerance
		var match Zone
		matches := 0
		for _, z := range c.board.Zones {
			if math.Abs(smoothed-c.calibration[z]) <= c.tolerance {
				match = z
				matches++
			}
		}
		if matches != 1 {
			return "", false
		}
		return match, true
	}
}
