package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectionFilter_PrimeFillsAllSlots(t *testing.T) {
	f := NewReflectionFilter(5)
	f.Prime(12)

	require.True(t, f.Primed())
	assert.Equal(t, 5, f.Size())
	assert.InDelta(t, 12.0, f.Mean(), 1e-9)
}

func TestReflectionFilter_MeanOfLastFive(t *testing.T) {
	f := NewReflectionFilter(5)
	f.Prime(0)

	var got float64
	for _, v := range []float64{10, 20, 30, 40, 50, 60} {
		got = f.Push(v)
	}

	// Buffer holds the last 5 pushes: 20..60.
	assert.InDelta(t, 40.0, got, 1e-9)
	assert.Equal(t, 5, f.Size())
}

func TestReflectionFilter_FirstPushPrimes(t *testing.T) {
	f := NewReflectionFilter(5)

	got := f.Push(14)

	assert.InDelta(t, 14.0, got, 1e-9)
	assert.True(t, f.Primed())
}

func TestReflectionFilter_DefaultSize(t *testing.T) {
	assert.Equal(t, 5, NewReflectionFilter(0).Size())
	assert.Equal(t, 3, NewReflectionFilter(3).Size())
}
