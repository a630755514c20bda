package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FirstObservationSeeds(t *testing.T) {
	v, b := Normalize(0.7, UnsetBounds(), OpennessPads)

	require.True(t, b.IsSet())
	assert.InDelta(t, 0.7, b.Min, 1e-12)
	assert.InDelta(t, 0.7, b.Max, 1e-12)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestNormalize_WidensAndDrifts(t *testing.T) {
	b := Bounds{Min: 0.2, Max: 0.4}

	_, b = Normalize(0.9, b, PinchPads)

	assert.InDelta(t, 0.2+(0.9-0.2)*calibrationDrift, b.Min, 1e-12)
	assert.InDelta(t, 0.9, b.Max, 1e-12)
	assert.GreaterOrEqual(t, b.Max, b.Min)
}

func TestNormalize_PaddedInterior(t *testing.T) {
	b := Bounds{Min: 0, Max: 1}

	top, _ := Normalize(1, b, OpennessPads)
	bottom, _ := Normalize(0, b, OpennessPads)
	mid, _ := Normalize(0.54, b, OpennessPads)

	assert.Equal(t, 1.0, top)
	assert.Equal(t, 0.0, bottom)
	assert.Greater(t, mid, 0.4)
	assert.Less(t, mid, 0.6)
}

func TestNormalize_RecentersOverTime(t *testing.T) {
	b := Bounds{Min: 0, Max: 1}
	for i := 0; i < 3000; i++ {
		_, b = Normalize(0.5, b, OpennessPads)
	}
	assert.InDelta(t, 0.5, b.Min, 0.01)
	assert.InDelta(t, 0.5, b.Max, 0.01)
}

func TestNormalize_StaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, pads := range []Pads{OpennessPads, PinchPads} {
		b := UnsetBounds()
		for i := 0; i < 5000; i++ {
			raw := rng.Float64() * 3
			if i%500 == 0 {
				raw = 0
			}
			var v float64
			v, b = Normalize(raw, b, pads)
			require.False(t, math.IsNaN(v), "iteration %d", i)
			require.GreaterOrEqual(t, v, 0.0, "iteration %d", i)
			require.LessOrEqual(t, v, 1.0, "iteration %d", i)
			require.GreaterOrEqual(t, b.Max, b.Min, "iteration %d", i)
		}
	}
}

func TestNormalize_ConstantInputIsFinite(t *testing.T) {
	b := UnsetBounds()
	for i := 0; i < 100; i++ {
		var v float64
		v, b = Normalize(0.3, b, PinchPads)
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	assert.InDelta(t, 0.3, b.Min, 1e-12)
	assert.InDelta(t, 0.3, b.Max, 1e-12)
}

func TestCalibration_ApplyAndReset(t *testing.T) {
	c := NewCalibration()
	require.False(t, c.IsSet())

	f := c.Apply(Features{OpennessRaw: 0.1, PinchRaw: 0.2})
	require.True(t, c.IsSet())
	assert.GreaterOrEqual(t, f.Openness, 0.0)
	assert.GreaterOrEqual(t, f.Pinch, 0.0)

	f = c.Apply(Features{OpennessRaw: 1.0, PinchRaw: 1.4})
	assert.Equal(t, 1.0, f.Openness)
	assert.Equal(t, 1.0, f.Pinch)

	c.Reset()
	assert.False(t, c.Openness.IsSet())
	assert.False(t, c.Pinch.IsSet())
	assert.True(t, math.IsInf(c.Openness.Min, 1))
	assert.True(t, math.IsInf(c.Pinch.Max, -1))
}
