package nav

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenGrammar(t *testing.T) {
	assert.Equal(t, "START scenario=CONTAMINATED", TokenStart(ScenarioContaminated))
	assert.Equal(t, "TARGET_COLOR=RED", TokenTargetColor(ZoneRed))
	assert.Equal(t, "TURN_AROUND", TokenTurnAround())
	assert.Equal(t, "ABORT_OBSTACLE distance_mm=142", TokenAbortObstacle(142))
	assert.Equal(t, "WRONG_WAY_FOR_GREEN", TokenWrongWay(ZoneGreen))
	assert.Equal(t, "RED_REACHED", TokenReached(ZoneRed))
	assert.Equal(t, "ZONE=RECYCLING_OK", TokenScenarioZone(ScenarioRecyclingOK))
	assert.Equal(t, "DONE", TokenDone())
}

func TestLineReporter_WireShape(t *testing.T) {
	var sb strings.Builder
	r := NewLineReporter(&sb)

	r.Emit(TokenStart(ScenarioRecyclingOK))
	r.Emit(TokenDone())

	assert.Equal(t, "STATUS:START scenario=RECYCLING_OK\nSTATUS:DONE\n", sb.String())
}

func TestTeeReporter(t *testing.T) {
	a := &CollectReporter{}
	b := &CollectReporter{}

	TeeReporter{a, b}.Emit("DONE")

	assert.Equal(t, []string{"DONE"}, a.Tokens())
	assert.Equal(t, []string{"DONE"}, b.Tokens())
}

func TestChanReporter_DropsWhenFull(t *testing.T) {
	r := NewChanReporter(1)

	r.Emit("ONE")
	r.Emit("TWO") // dropped, consumer lagging

	assert.Equal(t, "ONE", <-r.C)
	select {
	case tok := <-r.C:
		t.Fatalf("unexpected token %q", tok)
	default:
	}
}
