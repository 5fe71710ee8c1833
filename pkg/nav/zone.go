// Package nav implements the zone-sorting navigation core: the hybrid
// color classifier, the reflectance smoothing filter, the obstacle guard,
// and the tick-driven navigation state machine that drives the rover onto
// a target zone.
package nav

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/brickbot/sortbot/pkg/robot"
)

// Zone is one colored region of the board.
type Zone string

const (
	ZoneGreen  Zone = "GREEN"
	ZoneYellow Zone = "YELLOW"
	ZoneRed    Zone = "RED"
	ZoneBlue   Zone = "BLUE"
)

// Board describes the physical board: three zones in driving order plus
// the mapping from discrete sensor colors to zones. The order drives the
// wrong-way logic and never changes mid-run.
type Board struct {
	Zones  [3]Zone
	Colors map[robot.Color]Zone
}

// StandardBoard is the GREEN -> YELLOW -> RED layout.
func StandardBoard() Board {
	return Board{
		Zones: [3]Zone{ZoneGreen, ZoneYellow, ZoneRed},
		Colors: map[robot.Color]Zone{
			robot.ColorGreen:  ZoneGreen,
			robot.ColorYellow: ZoneYellow,
			robot.ColorRed:    ZoneRed,
		},
	}
}

// ThreeColorBoard is the GREEN -> BLUE -> RED layout variant.
func ThreeColorBoard() Board {
	return Board{
		Zones: [3]Zone{ZoneGreen, ZoneBlue, ZoneRed},
		Colors: map[robot.Color]Zone{
			robot.ColorGreen: ZoneGreen,
			robot.ColorBlue:  ZoneBlue,
			robot.ColorRed:   ZoneRed,
		},
	}
}

// BoardByName resolves a configured board layout name.
func BoardByName(name string) (Board, error) {
	switch name {
	case "", "standard":
		return StandardBoard(), nil
	case "three-color":
		return ThreeColorBoard(), nil
	default:
		return Board{}, fmt.Errorf("unknown board layout %q", name)
	}
}

// First returns the zone nearest the start of the drive.
func (b Board) First() Zone { return b.Zones[0] }

// Middle returns the center zone.
func (b Board) Middle() Zone { return b.Zones[1] }

// Last returns the far edge zone.
func (b Board) Last() Zone { return b.Zones[2] }

// Contains reports whether z is one of the board's zones.
func (b Board) Contains(z Zone) bool {
	return lo.Contains(b.Zones[:], z)
}

// FromColor maps a discrete sensor color to a board zone.
func (b Board) FromColor(c robot.Color) (Zone, bool) {
	z, ok := b.Colors[c]
	return z, ok
}
