package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRig_ZoomFollowsScale(t *testing.T) {
	far := NewRig()
	near := NewRig()
	for range 300 {
		far.Step(0, false, nil, 0.2)
		near.Step(0, false, nil, 2.5)
	}

	assert.InDelta(t, 110, far.Position.Z, 1e-3)
	assert.InDelta(t, 56, near.Position.Z, 1e-3)
	assert.InDelta(t, 0, far.Position.X, 1e-9)
}

func TestRig_ManualFollowsPalm(t *testing.T) {
	r := NewRig()
	for range 300 {
		r.Step(0, false, &Vec2{X: 0, Y: 1}, 1)
	}

	assert.InDelta(t, 7, r.Position.X, 1e-3)
	assert.InDelta(t, -5, r.Position.Y, 1e-3)
}

func TestRig_CinematicIgnoresPalm(t *testing.T) {
	a := NewRig()
	b := NewRig()
	for i := range 100 {
		el := float64(i) / 60
		a.Step(el, true, &Vec2{X: 0, Y: 0}, 1)
		b.Step(el, true, nil, 1)
	}

	assert.Equal(t, a.Position, b.Position)
	assert.NotZero(t, a.Position.X)
}

func TestLightingFor(t *testing.T) {
	dark := LightingFor(0, 0)
	assert.InDelta(t, 0.34, dark.Exposure, 1e-9)
	assert.InDelta(t, 0.8, dark.Key, 1e-9)
	assert.InDelta(t, 0.08, dark.BloomStrength, 1e-9)

	bright := LightingFor(1.5, 1)
	assert.InDelta(t, 1.05, bright.Exposure, 1e-9)
	assert.InDelta(t, 0.62, bright.BloomStrength, 1e-9)

	mid := LightingFor(0.5, 0)
	assert.InDelta(t, 0.62, mid.Exposure, 1e-9)
	assert.InDelta(t, 0.86, mid.BloomThreshold, 1e-9)
}
