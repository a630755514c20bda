package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/saturn/internal/gesture"
)

func TestOverrides_Enter(t *testing.T) {
	now := time.Unix(1000, 0)
	var o Overrides

	o.Enter(gesture.Victory, now, DefaultHyperDuration)
	assert.True(t, o.Cinematic)
	o.Enter(gesture.Victory, now, DefaultHyperDuration)
	assert.False(t, o.Cinematic)

	o.Enter(gesture.Trident, now, DefaultHyperDuration)
	assert.Equal(t, now.Add(2500*time.Millisecond), o.HyperUntil)

	o.ChaosKick = 0.4
	o.Enter(gesture.Fist, now, DefaultHyperDuration)
	assert.Equal(t, 1.0, o.ChaosKick)
	o.Enter(gesture.Fist, now, DefaultHyperDuration)
	assert.Equal(t, 1.0, o.ChaosKick)

	before := o
	o.Enter(gesture.Open, now, DefaultHyperDuration)
	assert.Equal(t, before, o)
}

func TestOverrides_HyperWindow(t *testing.T) {
	start := time.Unix(1000, 0)
	var o Overrides
	o.Enter(gesture.Trident, start, DefaultHyperDuration)

	tg := Targets{Params: RestParams()}
	o.Apply(start.Add(time.Second), &tg)
	assert.Equal(t, hyperWarp, tg.Warp)
	assert.Equal(t, hyperKick, o.ChaosKick)

	o.ChaosKick = 0.9
	o.Apply(start.Add(2*time.Second), &tg)
	assert.Equal(t, 0.9, o.ChaosKick)

	after := Targets{Params: RestParams()}
	o.ChaosKick = 0
	o.Apply(start.Add(2600*time.Millisecond), &after)
	assert.Equal(t, 1.0, after.Warp)
	assert.Zero(t, o.ChaosKick)
	assert.False(t, o.Hyper(start.Add(2500*time.Millisecond)))
}

func TestOverrides_Decay(t *testing.T) {
	o := Overrides{ChaosKick: 1}
	o.Decay()
	assert.InDelta(t, 0.91, o.ChaosKick, 1e-12)
	for range 200 {
		o.Decay()
	}
	assert.Less(t, o.ChaosKick, 1e-6)
}

func TestChaosTarget(t *testing.T) {
	assert.Zero(t, ChaosTarget(1.0, 0))
	assert.InDelta(t, 0.5, ChaosTarget(2.2, 0), 1e-9)
	assert.Equal(t, 1.0, ChaosTarget(2.6, 0))
	assert.Equal(t, 1.0, ChaosTarget(2.2, 0.9))
	assert.InDelta(t, 0.34, ChaosTarget(0.5, 0.34), 1e-9)
}
