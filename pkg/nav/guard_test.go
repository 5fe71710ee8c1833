package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObstacleGuard(t *testing.T) {
	g := ObstacleGuard{StopDistanceMM: 150}

	tests := []struct {
		name   string
		dist   int
		ok     bool
		unsafe bool
	}{
		{"inside threshold", 100, true, true},
		{"exactly at threshold", 150, true, true},
		{"beyond threshold", 151, true, false},
		{"no reading", 10, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unsafe, g.Unsafe(tt.dist, tt.ok))
		})
	}
}
