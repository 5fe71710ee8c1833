package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSense(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		color  Color
		refl   int
		dist   int
		distOK bool
	}{
		{"all fields", "C=GREEN R=13 D=452", ColorGreen, 13, 452, true},
		{"no echo", "C=RED R=6 D=-", ColorRed, 6, -1, false},
		{"no color", "C=NONE R=20 D=300", ColorNone, 20, 300, true},
		{"missing fields", "R=8", ColorNone, 8, -1, false},
		{"empty line", "", ColorNone, -1, -1, false},
		{"garbage field", "C=GREEN R=x D=12", ColorGreen, -1, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, refl, dist, distOK := parseSense(tt.line)
			assert.Equal(t, tt.color, color)
			assert.Equal(t, tt.refl, refl)
			assert.Equal(t, tt.dist, dist)
			assert.Equal(t, tt.distOK, distOK)
		})
	}
}

func TestParseColor_RoundTrip(t *testing.T) {
	for _, c := range []Color{ColorNone, ColorRed, ColorGreen, ColorYellow, ColorBlue, ColorBlack, ColorWhite} {
		assert.Equal(t, c, ParseColor(c.String()))
	}
	assert.Equal(t, ColorNone, ParseColor("CHARTREUSE"))
}
