package nav

import (
	"fmt"
	"io"
	"sync"
)

// Status tokens form the line protocol the upstream bridge scrapes for
// run progress. The bridge matches on exact token shapes, so these
// constructors are the single source of the grammar.

func TokenStart(s Scenario) string { return fmt.Sprintf("START scenario=%s", s) }
func TokenTargetColor(z Zone) string { return fmt.Sprintf("TARGET_COLOR=%s", z) }
func TokenTurnAround() string { return "TURN_AROUND" }
func TokenAbortObstacle(distMM int) string { return fmt.Sprintf("ABORT_OBSTACLE distance_mm=%d", distMM) }
func TokenWrongWay(target Zone) string { return fmt.Sprintf("WRONG_WAY_FOR_%s", target) }
func TokenReached(z Zone) string { return fmt.Sprintf("%s_REACHED", z) }
func TokenScenarioZone(s Scenario) string { return fmt.Sprintf("ZONE=%s", s) }
func TokenDone() string { return "DONE" }

// Reporter receives one status token per lifecycle transition.
type Reporter interface {
	Emit(token string)
}

// LineReporter writes tokens as "STATUS:<token>\n" lines, the wire shape
// consumed by the bridge.
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Emit(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "STATUS:%s\n", token)
}

// TeeReporter fans a token out to several reporters in order.
type TeeReporter []Reporter

func (t TeeReporter) Emit(token string) {
	for _, r := range t {
		r.Emit(token)
	}
}

// ChanReporter forwards tokens to a channel, dropping when the consumer
// lags. Used by the live monitor.
type ChanReporter struct {
	C chan string
}

func NewChanReporter(buffer int) *ChanReporter {
	return &ChanReporter{C: make(chan string, buffer)}
}

func (r *ChanReporter) Emit(token string) {
	select {
	case r.C <- token:
	default:
	}
}

// CollectReporter accumulates tokens in memory for tests.
type CollectReporter struct {
	mu     sync.Mutex
	tokens []string
}

func (r *CollectReporter) Emit(token string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, token)
	r.mu.Unlock()
}

func (r *CollectReporter) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.tokens))
	copy(out, r.tokens)
	return out
}
