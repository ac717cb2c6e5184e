package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
)

func TestBaseFallSpeedIsCapped(t *testing.T) {
	tuning := config.DefaultTuning().Meteor

	assert.Equal(t, 360.0, BaseFallSpeed(0, tuning))
	assert.Equal(t, 860.0, BaseFallSpeed(50, tuning))
	assert.Equal(t, 1260.0, BaseFallSpeed(90, tuning))
	assert.Equal(t, 1260.0, BaseFallSpeed(500, tuning))
}

func TestNewMeteorRanges(t *testing.T) {
	for _, score := range []int{0, 12, 200} {
		ctx, _ := newContext(int64(score) + 3)
		ctx.Score = score
		base := BaseFallSpeed(score, ctx.Tuning.Meteor)

		for i := 0; i < 500; i++ {
			m := NewMeteor(ctx)

			// 8% of 450 is below the 40 floor; 18% of 450 is under 12% of 800.
			require.GreaterOrEqual(t, m.Size, 40.0)
			require.LessOrEqual(t, m.Size, 81.0)
			require.Equal(t, math.Round(m.X), m.X, "x is whole")
			require.GreaterOrEqual(t, m.X, 0.0)
			require.LessOrEqual(t, m.X, 450-m.Size+0.5)
			require.Equal(t, -m.Size-20, m.Y)
			require.GreaterOrEqual(t, m.VY, base)
			require.Less(t, m.VY, base+240)
			require.GreaterOrEqual(t, m.Rotation, 0.0)
			require.Less(t, m.Rotation, 360.0)
			require.GreaterOrEqual(t, m.Spin, -90.0)
			require.Less(t, m.Spin, 90.0)
		}
	}
}

func TestNewMeteorIsDeterministicForSeed(t *testing.T) {
	a, _ := newContext(99)
	b, _ := newContext(99)

	for i := 0; i < 10; i++ {
		assert.Equal(t, NewMeteor(a), NewMeteor(b))
	}
}

func TestNewMeteorTallField(t *testing.T) {
	ctx, _ := newContext(5)
	ctx.Field = Geometry{Width: 2000, Height: 2000}

	for i := 0; i < 200; i++ {
		m := NewMeteor(ctx)
		// 8% of 2000 is already the 160 ceiling.
		require.Equal(t, 160.0, m.Size)
	}
}

func TestMeteorUpdatePassesBottom(t *testing.T) {
	ctx, _ := newContext(1)
	m := &Meteor{Y: 900, Size: 100, Spin: 45}

	ctx.Delta = 0
	assert.False(t, m.Update(ctx), "exactly one size below the edge is still on the board")

	m.VY = 100
	ctx.Delta = frame
	assert.True(t, m.Update(ctx))
	assert.InDelta(t, 901.6, m.Y, 1e-9)
	assert.InDelta(t, 45*frame.Seconds(), m.Rotation, 1e-9)
}

func TestMeteorHitboxIsCentered(t *testing.T) {
	m := &Meteor{X: 10, Y: 20, Size: 100, Rotation: 33}
	c := m.Hitbox(config.DefaultTuning().Collision)

	assert.Equal(t, 60.0, c.X)
	assert.Equal(t, 70.0, c.Y)
	assert.InDelta(t, 38.0, c.Radius, 1e-9)
}

func TestObjectsDrawOntoCanvas(t *testing.T) {
	ctx, _ := newContext(1)
	canvas := draw.NewScaledCanvas(45, 40, 450, 800)
	dc := DrawContext{Canvas: canvas}

	m := NewMeteor(ctx)
	m.Y = 300
	m.Draw(dc)
	assert.True(t, anyPixel(canvas, 45, 80), "meteor outline")

	canvas.Clear()
	NewPlayer(testField, ctx.Tuning.Player).Draw(dc)
	assert.True(t, anyPixel(canvas, 45, 80), "player body")

	// A meteor without an outline still draws.
	canvas.Clear()
	(&Meteor{X: 100, Y: 100, Size: 80}).Draw(dc)
	assert.True(t, anyPixel(canvas, 45, 80))
}

func anyPixel(c *draw.Canvas, w, h int) bool {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.Pixel(x, y) {
				return true
			}
		}
	}
	return false
}
