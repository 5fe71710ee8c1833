package robot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSensors_AdvancesOnReadColor(t *testing.T) {
	m := NewMockSensors(
		MockSample{Color: ColorGreen, Reflection: 13, ReflectionOK: true},
		MockSample{Color: ColorRed, Reflection: 6, ReflectionOK: true, DistanceMM: 120, DistanceOK: true},
	)
	ctx := context.Background()

	c, err := m.ReadColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, ColorGreen, c)

	// Same tick until the next ReadColor.
	r, err := m.ReadReflection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13, r)
	_, err = m.ReadDistance(ctx)
	assert.ErrorIs(t, err, ErrNoReading)

	c, err = m.ReadColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, ColorRed, c)
	d, err := m.ReadDistance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, d)

	// Script exhausted: the last sample repeats.
	c, err = m.ReadColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, ColorRed, c)
}

func TestMockSensors_NoColorIsNoReading(t *testing.T) {
	m := NewMockSensors(MockSample{Reflection: 20, ReflectionOK: true})

	_, err := m.ReadColor(context.Background())
	assert.ErrorIs(t, err, ErrNoReading)
}

func TestRecordingDrive_Formats(t *testing.T) {
	d := &RecordingDrive{}
	ctx := context.Background()

	require.NoError(t, d.Run(ctx, 200, 200))
	require.NoError(t, d.RunAngle(ctx, Right, -300, 360, true, true))
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, []string{
		"run 200 200",
		"angle right -300 360 brake=true wait=true",
		"stop",
	}, d.Calls())
}
