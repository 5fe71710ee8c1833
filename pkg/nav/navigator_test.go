package nav

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickbot/sortbot/pkg/robot"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SamplePeriod = time.Millisecond
	cfg.InitSettle = 0
	cfg.SettleDelay = 0
	cfg.WarmupSamples = 3
	cfg.ConfirmHits = 5
	return cfg
}

type harness struct {
	nav     *Navigator
	sensors *robot.MockSensors
	drive   *robot.RecordingDrive
	signals *robot.RecordingSignals
	rep     *CollectReporter
}

func newHarness(t *testing.T, cfg Config, scenario Scenario, script ...robot.MockSample) *harness {
	t.Helper()
	h := &harness{
		sensors: robot.NewMockSensors(script...),
		drive:   &robot.RecordingDrive{},
		signals: &robot.RecordingSignals{},
		rep:     &CollectReporter{},
	}
	n, err := New(cfg, scenario, h.drive, h.sensors, h.signals, h.rep, nil)
	require.NoError(t, err)
	h.nav = n
	return h
}

// Scripted tick helpers. Reflectance 20 is inside the valid range but in
// none of the default calibration windows, so it never classifies.
func colorTick(c robot.Color) robot.MockSample {
	return robot.MockSample{Color: c, Reflection: 20, ReflectionOK: true}
}

func noneTick() robot.MockSample {
	return robot.MockSample{Reflection: 20, ReflectionOK: true}
}

func obstacleTick(distMM int) robot.MockSample {
	return robot.MockSample{Reflection: 20, ReflectionOK: true, DistanceMM: distMM, DistanceOK: true}
}

func repeatTicks(s robot.MockSample, n int) []robot.MockSample {
	out := make([]robot.MockSample, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func script(groups ...[]robot.MockSample) []robot.MockSample {
	var out []robot.MockSample
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func runToCompletion(t *testing.T, h *harness) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.nav.Run(ctx))
}

func countToken(tokens []string, token string) int {
	n := 0
	for _, tok := range tokens {
		if tok == token {
			n++
		}
	}
	return n
}

func TestNavigator_PreCheckAlreadyOnTarget(t *testing.T) {
	h := newHarness(t, testConfig(), ScenarioRecyclingOK,
		colorTick(robot.ColorGreen))

	runToCompletion(t, h)

	assert.Equal(t, []string{
		"START scenario=RECYCLING_OK",
		"TARGET_COLOR=GREEN",
		"GREEN_REACHED",
		"ZONE=RECYCLING_OK",
		"DONE",
	}, h.rep.Tokens())

	// The whole point of the pre-check: no drive command was ever issued.
	assert.Empty(t, h.drive.Calls())
	assert.Contains(t, h.signals.Calls(), "display OK")
	assert.Contains(t, h.signals.Calls(), "beep 1500 400")
}

func TestNavigator_EndToEndContaminated(t *testing.T) {
	h := newHarness(t, testConfig(), ScenarioContaminated, script(
		[]robot.MockSample{noneTick()}, // stationary pre-check
		repeatTicks(colorTick(robot.ColorGreen), 10),
		repeatTicks(colorTick(robot.ColorYellow), 10),
		repeatTicks(colorTick(robot.ColorRed), 6),
	)...)

	runToCompletion(t, h)

	tokens := h.rep.Tokens()
	require.GreaterOrEqual(t, len(tokens), 5)
	assert.Equal(t, "START scenario=CONTAMINATED", tokens[0])
	assert.Equal(t, "TARGET_COLOR=RED", tokens[1])
	assert.Equal(t, []string{"RED_REACHED", "ZONE=CONTAMINATED", "DONE"}, tokens[len(tokens)-3:])

	// Crossing GREEN then YELLOW on the way to RED is forward progress,
	// never a wrong-way or obstacle event.
	assert.Zero(t, countToken(tokens, TokenWrongWay(ZoneRed)))
	assert.Zero(t, countToken(tokens, TokenTurnAround()))

	// Hazard profile: turbo speed and the siren cues.
	calls := h.drive.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "run 500 500", calls[0])
	assert.Contains(t, h.signals.Calls(), "icon SQUARE")
	assert.Contains(t, h.signals.Calls(), "beep 900 50")
}

func TestNavigator_WrongWayForGreen(t *testing.T) {
	// Target is the first zone but the rover only ever sees the middle
	// then the far edge: one overshoot recovery, then arrival.
	h := newHarness(t, testConfig(), ScenarioRecyclingOK, script(
		[]robot.MockSample{noneTick()},
		repeatTicks(colorTick(robot.ColorYellow), 10),
		repeatTicks(colorTick(robot.ColorRed), 10),
		repeatTicks(colorTick(robot.ColorGreen), 8),
	)...)

	runToCompletion(t, h)

	tokens := h.rep.Tokens()
	assert.Equal(t, 1, countToken(tokens, "WRONG_WAY_FOR_GREEN"))
	assert.Equal(t, 1, countToken(tokens, TokenTurnAround()))
	assert.Equal(t, []string{"GREEN_REACHED", "ZONE=RECYCLING_OK", "DONE"}, tokens[len(tokens)-3:])
}

func TestNavigator_ObstacleRecovery(t *testing.T) {
	h := newHarness(t, testConfig(), ScenarioRecyclingOK, script(
		[]robot.MockSample{noneTick()},
		[]robot.MockSample{obstacleTick(100)},
		repeatTicks(colorTick(robot.ColorGreen), 10),
	)...)

	runToCompletion(t, h)

	assert.Equal(t, []string{
		"START scenario=RECYCLING_OK",
		"TARGET_COLOR=GREEN",
		"ABORT_OBSTACLE distance_mm=100",
		"TURN_AROUND",
		"GREEN_REACHED",
		"ZONE=RECYCLING_OK",
		"DONE",
	}, h.rep.Tokens())

	// Stop, one turn-around maneuver, resume, final push, stop.
	assert.Equal(t, []string{
		"run 200 200",
		"stop",
		"angle left 300 360 brake=true wait=false",
		"angle right -300 360 brake=true wait=true",
		"run 200 200",
		"angle left 200 250 brake=true wait=false",
		"angle right 200 250 brake=true wait=true",
		"stop",
	}, h.drive.Calls())

	assert.Contains(t, h.signals.Calls(), "beep 400 250")
}

func TestNavigator_StepHitCounterResets(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, ScenarioRecyclingOK)
	n := h.nav
	ctx := context.Background()

	n.state = RunState{Phase: PhaseSearching, Visited: make(map[Zone]bool)}
	n.state.Samples = cfg.WarmupSamples // past warmup

	green := Sample{Color: robot.ColorGreen, Smoothed: 20}
	none := Sample{Smoothed: 20}

	for i := 0; i < cfg.ConfirmHits-1; i++ {
		n.step(ctx, green)
	}
	assert.Equal(t, cfg.ConfirmHits-1, n.state.Hits)

	// A single unclassifiable sample resets the counter to zero, it never
	// decrements gradually.
	n.step(ctx, none)
	assert.Equal(t, 0, n.state.Hits)

	// A non-target zone resets it too.
	n.step(ctx, green)
	n.step(ctx, Sample{Color: robot.ColorYellow, Smoothed: 20})
	assert.Equal(t, 0, n.state.Hits)

	for i := 0; i < cfg.ConfirmHits; i++ {
		n.step(ctx, green)
	}
	assert.Equal(t, PhaseDone, n.state.Phase)
}

func TestNavigator_StepWrongWayMiddleTarget(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, ScenarioInspection)
	n := h.nav
	ctx := context.Background()

	n.state = RunState{Phase: PhaseSearching, Visited: make(map[Zone]bool)}
	n.state.Samples = cfg.WarmupSamples

	// One edge visited: not yet an overshoot.
	n.step(ctx, Sample{Color: robot.ColorGreen, Smoothed: 20})
	assert.Zero(t, countToken(h.rep.Tokens(), "WRONG_WAY_FOR_YELLOW"))

	// Both edges visited with no target hit this tick: overshoot.
	n.step(ctx, Sample{Color: robot.ColorRed, Smoothed: 20})
	assert.Equal(t, 1, countToken(h.rep.Tokens(), "WRONG_WAY_FOR_YELLOW"))

	// Recovery reset everything and re-entered warmup.
	assert.Equal(t, PhaseWarmup, n.state.Phase)
	assert.Empty(t, n.state.Visited)
	assert.Zero(t, n.state.Hits)
	assert.Zero(t, n.state.Samples)
}

func TestNavigator_CancelMidRun(t *testing.T) {
	h := newHarness(t, testConfig(), ScenarioRecyclingOK, noneTick())

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := h.nav.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Motors are not left running on cancellation.
	calls := h.drive.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "stop", calls[len(calls)-1])
}

func TestNew_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmHits = 0
	_, err := New(cfg, ScenarioRecyclingOK, &robot.RecordingDrive{}, robot.NewMockSensors(), nil, nil, nil)
	assert.Error(t, err)

	_, err = New(testConfig(), Scenario("BOGUS"), &robot.RecordingDrive{}, robot.NewMockSensors(), nil, nil, nil)
	assert.Error(t, err)
}
