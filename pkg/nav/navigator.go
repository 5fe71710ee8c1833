package nav

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brickbot/sortbot/pkg/robot"
)

// Phase is the navigator's lifecycle state.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseWarmup
	PhaseSearching
	PhaseObstacleRecovery
	PhaseWrongWayRecovery
	PhaseArrived
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseWarmup:
		return "WARMUP"
	case PhaseSearching:
		return "SEARCHING"
	case PhaseObstacleRecovery:
		return "OBSTACLE_RECOVERY"
	case PhaseWrongWayRecovery:
		return "WRONG_WAY_RECOVERY"
	case PhaseArrived:
		return "ARRIVED"
	case PhaseDone:
		return "DONE"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Sample is one tick of fused sensor data. Produced fresh every tick and
// not retained.
type Sample struct {
	Color      robot.Color
	Raw        int
	Smoothed   float64
	DistanceMM int
	DistanceOK bool
}

// RunState is the mutable per-run state, owned exclusively by one
// Navigator and discarded when the run ends.
type RunState struct {
	Phase   Phase
	Visited map[Zone]bool
	Hits    int
	Samples int
}

// Snapshot is a read-only view of the run published to observers each
// tick.
type Snapshot struct {
	Phase      Phase
	Target     Zone
	Zone       Zone // last classified zone, "" if none yet
	Hits       int
	Samples    int
	Raw        int
	Smoothed   float64
	DistanceMM int
	DistanceOK bool
	Elapsed    time.Duration
}

// Navigator owns one navigation run: it pulls a sensor sample every tick,
// classifies it, consults the obstacle guard, and drives the state
// machine until the rover sits on the target zone.
type Navigator struct {
	cfg        Config
	scenario   Scenario
	target     Zone
	speed      int
	drive      robot.Drive
	sensors    robot.Sensors
	signals    robot.Signals
	reporter   Reporter
	log        *zap.Logger
	filter     *ReflectionFilter
	classifier *Classifier
	guard      ObstacleGuard
	effects    *EffectsController

	state    RunState
	lastZone Zone
	started  time.Time
	snapCh   chan Snapshot

	mu      sync.Mutex
	running bool
}

// New builds a navigator for one run of the given scenario. A nil signals
// implementation is replaced by robot.NopSignals; a nil reporter writes
// STATUS lines to stdout; a nil logger is replaced by zap.NewNop().
func New(cfg Config, scenario Scenario, drive robot.Drive, sensors robot.Sensors,
	signals robot.Signals, reporter Reporter, logger *zap.Logger,
) (*Navigator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	target, err := scenario.Target(cfg.Board)
	if err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(cfg.Board, cfg.Calibration, cfg.Tolerance,
		cfg.ValidMin, cfg.ValidMax, cfg.Policy)
	if err != nil {
		return nil, err
	}
	if signals == nil {
		signals = robot.NopSignals{}
	}
	if reporter == nil {
		reporter = NewLineReporter(os.Stdout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	n := &Navigator{
		cfg:        cfg,
		scenario:   scenario,
		target:     target,
		speed:      cfg.speedFor(scenario),
		drive:      drive,
		sensors:    sensors,
		signals:    signals,
		reporter:   reporter,
		log:        logger,
		filter:     NewReflectionFilter(cfg.FilterSize),
		classifier: classifier,
		guard:      ObstacleGuard{StopDistanceMM: cfg.StopDistanceMM},
		snapCh:     make(chan Snapshot, 1),
	}
	if scenario.Hazard() {
		n.effects = NewEffectsController(signals, cfg.EffectPeriod)
	}
	return n, nil
}

// Target returns the resolved target zone.
func (n *Navigator) Target() Zone { return n.target }

// Scenario returns the run's scenario.
func (n *Navigator) Scenario() Scenario { return n.scenario }

// Snapshots returns the per-tick state stream. A slow consumer only ever
// misses intermediate snapshots, never blocks the control loop.
func (n *Navigator) Snapshots() <-chan Snapshot { return n.snapCh }

// Run executes the navigation run to completion. It returns nil once the
// rover is seated on the target zone, or the context error if the run is
// cancelled mid-drive. All sensing anomalies are absorbed as state
// transitions; no error escapes the sampling loop for them.
func (n *Navigator) Run(ctx context.Context) error {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return errors.New("navigator already running")
	}
	n.running = true
	n.mu.Unlock()
	defer func() {
		n.mu.Lock()
		n.running = false
		n.mu.Unlock()
	}()

	n.state = RunState{Phase: PhaseInit, Visited: make(map[Zone]bool)}
	n.started = time.Now()

	n.reporter.Emit(TokenStart(n.scenario))
	n.reporter.Emit(TokenTargetColor(n.target))
	n.log.Info("run starting",
		zap.String("scenario", string(n.scenario)),
		zap.String("target", string(n.target)),
		zap.Int("speed", n.speed),
		zap.Bool("hazard", n.scenario.Hazard()))

	if err := n.signals.SetVolume(ctx, n.cfg.Volume); err != nil {
		n.log.Warn("set volume", zap.Error(err))
	}

	// Let the sensor stabilize, then seed the smoothing buffer with the
	// first real reading.
	if err := n.sleep(ctx, n.cfg.InitSettle); err != nil {
		return err
	}
	initial, err := n.sensors.ReadReflection(ctx)
	if err != nil {
		initial = 0
	}
	n.filter.Prime(float64(initial))

	// Stationary pre-check: if the rover already sits on the target,
	// there is nothing to drive.
	startColor, err := n.sensors.ReadColor(ctx)
	if err != nil {
		startColor = robot.ColorNone
	}
	if zone, ok := n.classifier.Classify(startColor, n.filter.Mean()); ok && zone == n.target {
		n.log.Info("already on target zone, skipping drive", zap.String("zone", string(zone)))
		n.arriveTokens(ctx, zone)
		return nil
	}

	if n.scenario.Hazard() {
		n.log.Info("hazard mode active, turbo speed engaged")
		n.started = time.Now() // siren cycle starts with the drive
	} else if err := n.signals.Display(ctx, "GO"); err != nil {
		n.log.Warn("display", zap.Error(err))
	}

	n.driveForward(ctx)
	n.state.Phase = PhaseWarmup

	ticker := time.NewTicker(n.cfg.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := n.drive.Stop(context.WithoutCancel(ctx)); err != nil {
				n.log.Warn("stop on cancel", zap.Error(err))
			}
			return ctx.Err()
		case <-ticker.C:
			s := n.sample(ctx)
			n.step(ctx, s)
			n.publish(s)
			if n.state.Phase == PhaseDone {
				return nil
			}
		}
	}
}

// sample pulls one tick of sensor data. Absent readings degrade the same
// way the sensors report them: color to none, reflection to zero, and
// distance to a missing value.
func (n *Navigator) sample(ctx context.Context) Sample {
	color, err := n.sensors.ReadColor(ctx)
	if err != nil {
		color = robot.ColorNone
	}

	raw, err := n.sensors.ReadReflection(ctx)
	if err != nil {
		raw = 0
	}
	smoothed := n.filter.Push(float64(raw))

	dist, err := n.sensors.ReadDistance(ctx)
	distOK := err == nil

	return Sample{Color: color, Raw: raw, Smoothed: smoothed, DistanceMM: dist, DistanceOK: distOK}
}

// step advances the state machine by one sample. Interrupts (obstacle,
// wrong-way) are handled synchronously within the tick that produced the
// triggering sample.
func (n *Navigator) step(ctx context.Context, s Sample) {
	n.state.Samples++

	if n.effects != nil {
		n.effects.Update(ctx, time.Since(n.started))
	}

	if n.guard.Unsafe(s.DistanceMM, s.DistanceOK) {
		n.state.Phase = PhaseObstacleRecovery
		n.publish(s)
		n.stopDrive(ctx)
		n.reporter.Emit(TokenAbortObstacle(s.DistanceMM))
		n.log.Info("obstacle ahead, turning around", zap.Int("distance_mm", s.DistanceMM))
		if err := n.signals.Beep(ctx, 400, 250); err != nil {
			n.log.Warn("beep", zap.Error(err))
		}
		n.recover(ctx)
		return
	}

	// Warmup window: ignore classification while the rover clears its own
	// starting zone.
	if n.state.Samples < n.cfg.WarmupSamples {
		n.state.Hits = 0
		return
	}
	if n.state.Phase == PhaseWarmup {
		n.state.Phase = PhaseSearching
	}

	zone, ok := n.classifier.Classify(s.Color, s.Smoothed)
	if !ok {
		n.state.Hits = 0
		return
	}
	n.lastZone = zone
	n.state.Visited[zone] = true

	if zone == n.target {
		n.state.Hits++
	} else {
		n.state.Hits = 0
	}

	if n.state.Hits >= n.cfg.ConfirmHits {
		n.arrive(ctx, zone)
		return
	}

	if n.wrongWay(zone) {
		n.state.Phase = PhaseWrongWayRecovery
		n.publish(s)
		n.stopDrive(ctx)
		n.reporter.Emit(TokenWrongWay(n.target))
		n.log.Info("overshot target, turning around",
			zap.String("target", string(n.target)),
			zap.String("classified", string(zone)))
		n.recover(ctx)
	}
}

// wrongWay evaluates the overshoot table for the current classification:
// crossing past the far edge without ever having registered the target
// means the rover drove the wrong way.
func (n *Navigator) wrongWay(current Zone) bool {
	first := n.cfg.Board.First()
	middle := n.cfg.Board.Middle()
	last := n.cfg.Board.Last()
	v := n.state.Visited

	switch n.target {
	case first:
		return current == last && v[middle] && !v[first]
	case last:
		return current == first && v[middle] && !v[last]
	case middle:
		return v[first] && v[last] && n.state.Hits == 0
	default:
		return false
	}
}

// recover performs the shared recovery procedure: in-place 180 turn,
// progress reset, fresh warmup window, resume driving.
func (n *Navigator) recover(ctx context.Context) {
	n.turnAround(ctx)
	n.state.Visited = make(map[Zone]bool)
	n.state.Hits = 0
	n.state.Samples = 0
	n.driveForward(ctx)
	n.state.Phase = PhaseWarmup
}

// turnAround spins the rover in place: one wheel forward, the other in
// reverse, braked, then a short settle so the next samples are clean.
func (n *Navigator) turnAround(ctx context.Context) {
	n.reporter.Emit(TokenTurnAround())
	if err := n.drive.RunAngle(ctx, robot.Left, n.cfg.TurnSpeed, n.cfg.TurnAngle, true, false); err != nil {
		n.log.Warn("turn left wheel", zap.Error(err))
	}
	if err := n.drive.RunAngle(ctx, robot.Right, -n.cfg.TurnSpeed, n.cfg.TurnAngle, true, true); err != nil {
		n.log.Warn("turn right wheel", zap.Error(err))
	}
	_ = n.sleep(ctx, n.cfg.SettleDelay)
}

// arrive seats the rover fully inside the zone with a fixed final push,
// then finishes the run.
func (n *Navigator) arrive(ctx context.Context, zone Zone) {
	n.state.Phase = PhaseArrived
	n.log.Info("target confirmed, final push",
		zap.String("zone", string(zone)),
		zap.Int("hits", n.state.Hits))

	if err := n.drive.RunAngle(ctx, robot.Left, n.speed, n.cfg.FinalDriveAngle, true, false); err != nil {
		n.log.Warn("final push left wheel", zap.Error(err))
	}
	if err := n.drive.RunAngle(ctx, robot.Right, n.speed, n.cfg.FinalDriveAngle, true, true); err != nil {
		n.log.Warn("final push right wheel", zap.Error(err))
	}
	n.stopDrive(ctx)

	n.arriveTokens(ctx, zone)
}

// arriveTokens emits the arrival/completion sequence the bridge watches
// for. Also used by the stationary pre-check, which issues no drive
// commands at all.
func (n *Navigator) arriveTokens(ctx context.Context, zone Zone) {
	n.reporter.Emit(TokenReached(zone))
	n.reporter.Emit(TokenScenarioZone(n.scenario))

	if err := n.signals.Display(ctx, "OK"); err != nil {
		n.log.Warn("display", zap.Error(err))
	}
	n.reporter.Emit(TokenDone())
	if err := n.signals.Beep(ctx, 1500, 400); err != nil {
		n.log.Warn("beep", zap.Error(err))
	}
	n.state.Phase = PhaseDone
	n.log.Info("run complete", zap.String("zone", string(zone)))
}

func (n *Navigator) driveForward(ctx context.Context) {
	if err := n.drive.Run(ctx, n.speed, n.speed); err != nil {
		n.log.Warn("drive forward", zap.Error(err))
	}
}

func (n *Navigator) stopDrive(ctx context.Context) {
	if err := n.drive.Stop(ctx); err != nil {
		n.log.Warn("stop", zap.Error(err))
	}
}

func (n *Navigator) publish(s Sample) {
	snap := Snapshot{
		Phase:      n.state.Phase,
		Target:     n.target,
		Zone:       n.lastZone,
		Hits:       n.state.Hits,
		Samples:    n.state.Samples,
		Raw:        s.Raw,
		Smoothed:   s.Smoothed,
		DistanceMM: s.DistanceMM,
		DistanceOK: s.DistanceOK,
		Elapsed:    time.Since(n.started),
	}
	select {
	case n.snapCh <- snap:
	default:
		// Drop the stale snapshot, keep the fresh one.
		select {
		case <-n.snapCh:
		default:
		}
		n.snapCh <- snap
	}
}

func (n *Navigator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
