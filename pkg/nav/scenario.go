package nav

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Scenario is the run profile selected by the external command. It picks
// the target zone and, for ScenarioContaminated, the hazard/turbo profile.
type Scenario string

const (
	ScenarioRecyclingOK  Scenario = "RECYCLING_OK"
	ScenarioContaminated Scenario = "CONTAMINATED"
	ScenarioInspection   Scenario = "INSPECTION"
)

// Command aliases accepted from the upstream bridge.
var scenarioAliases = map[Scenario][]string{
	ScenarioRecyclingOK:  {"RECYCLING_OK", "OK", "NORMAL"},
	ScenarioContaminated: {"CONTAMINATED", "LANDFILL", "ROUTE_TO_LANDFILL"},
	ScenarioInspection:   {"INSPECTION", "URGENT_INSPECTION", "URGENT_FIELD_INSPECTION", "FIELD_INSPECTION"},
}

// MapCommand normalizes an external command string (trimmed,
// case-insensitive) to a scenario. The fallback scenario is used for
// unrecognized commands; with an empty fallback the command is rejected.
func MapCommand(command string, fallback Scenario) (Scenario, error) {
	cmd := strings.ToUpper(strings.TrimSpace(command))
	for scenario, aliases := range scenarioAliases {
		if lo.Contains(aliases, cmd) {
			return scenario, nil
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("unrecognized command %q", command)
}

// Hazard reports whether this scenario runs the turbo/siren profile.
func (s Scenario) Hazard() bool {
	return s == ScenarioContaminated
}

// Target returns the scenario's target zone on the given board:
// RECYCLING_OK stops on the first zone, CONTAMINATED on the last,
// INSPECTION on the middle.
func (s Scenario) Target(board Board) (Zone, error) {
	switch s {
	case ScenarioRecyclingOK:
		return board.First(), nil
	case ScenarioContaminated:
		return board.Last(), nil
	case ScenarioInspection:
		return board.Middle(), nil
	default:
		return "", fmt.Errorf("unknown scenario %q", s)
	}
}
