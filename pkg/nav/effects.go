package nav

import (
	"context"
	"time"

	"github.com/brickbot/sortbot/pkg/robot"
)

// EffectsController runs the hazard-mode siren: a square wave alternating
// two audio/visual cues. It is sliced into the sampling loop one Update
// call per tick and never blocks longer than one short beep, so it cannot
// stall sensor sampling. It has no bearing on navigation decisions.
type EffectsController struct {
	period    time.Duration
	signals   robot.Signals
	lastPhase *bool
}

// NewEffectsController builds a siren toggling every period (the full
// cycle is twice that). Period zero or below uses 400 ms.
func NewEffectsController(signals robot.Signals, period time.Duration) *EffectsController {
	if period <= 0 {
		period = 400 * time.Millisecond
	}
	return &EffectsController{period: period, signals: signals}
}

// Phase returns the square-wave phase for an elapsed run time: true for
// the first half of each cycle.
func (e *EffectsController) Phase(elapsed time.Duration) bool {
	return elapsed%(2*e.period) < e.period
}

// Update emits the cue pair when the phase flips: high tone plus square
// icon on phase A, low tone plus cross icon on phase B.
func (e *EffectsController) Update(ctx context.Context, elapsed time.Duration) {
	phase := e.Phase(elapsed)
	if e.lastPhase != nil && *e.lastPhase == phase {
		return
	}
	e.lastPhase = &phase

	if phase {
		_ = e.signals.ShowIcon(ctx, robot.IconSquare)
		_ = e.signals.Beep(ctx, 900, 50)
	} else {
		_ = e.signals.ShowIcon(ctx, robot.IconCross)
		_ = e.signals.Beep(ctx, 600, 50)
	}
}
