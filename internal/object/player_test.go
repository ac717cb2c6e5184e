package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/meteors/internal/config"
)

func TestNewPlayerCentersOnBottomLine(t *testing.T) {
	p := NewPlayer(testField, config.DefaultTuning().Player)

	assert.InDelta(t, 189.0, p.X, 1e-9)
	assert.InDelta(t, 800-96-32.0, p.Y, 1e-9)
	assert.Equal(t, 72.0, p.W)
	assert.Equal(t, 96.0, p.H)
	assert.Equal(t, TiltNone, p.Tilt)
}

func TestSpriteFallbackWithoutMeasurement(t *testing.T) {
	tuning := config.DefaultTuning().Player
	w, h := Geometry{Width: 450, Height: 800}.Sprite(tuning)

	assert.InDelta(t, 240.0, h, 1e-9)
	assert.InDelta(t, 180.0, w, 1e-9)

	w, h = Geometry{Width: 450, Height: 800, SpriteHeight: 50}.Sprite(tuning)
	assert.Equal(t, 50.0, h)
	assert.InDelta(t, 180.0, w, 1e-9)
}

func TestKeyVelocity(t *testing.T) {
	ctx, _ := newContext(1)
	p := NewPlayer(testField, ctx.Tuning.Player)
	x0 := p.X

	ctx.Input.Press(KeyRight)
	p.Update(ctx)
	assert.Equal(t, 600.0, p.VX)
	assert.InDelta(t, x0+600*frame.Seconds(), p.X, 1e-9)
	assert.Equal(t, TiltRight, p.Tilt)

	ctx.Input.Release(KeyRight)
	ctx.Input.Press(KeyA)
	p.Update(ctx)
	assert.Equal(t, -600.0, p.VX)
	assert.Equal(t, TiltLeft, p.Tilt)
}

func TestOpposingKeysApplyFriction(t *testing.T) {
	pairs := [][2]Key{
		{KeyLeft, KeyRight},
		{KeyA, KeyD},
		{KeyLeft, KeyD},
		{KeyA, KeyRight},
	}
	for _, pair := range pairs {
		ctx, _ := newContext(1)
		p := NewPlayer(testField, ctx.Tuning.Player)
		p.VX = 600
		ctx.Input.Press(pair[0])
		ctx.Input.Press(pair[1])

		p.Update(ctx)

		assert.InDelta(t, 600*0.88, p.VX, 1e-9, "keys %v", pair)
		assert.Equal(t, TiltNone, p.Tilt, "keys %v", pair)
	}
}

func TestFrictionDecaysVelocity(t *testing.T) {
	ctx, _ := newContext(1)
	p := NewPlayer(testField, ctx.Tuning.Player)
	p.VX = -300

	for i := 0; i < 3; i++ {
		p.Update(ctx)
	}
	assert.InDelta(t, -300*0.88*0.88*0.88, p.VX, 1e-9)
	assert.Equal(t, TiltNone, p.Tilt)
}

func TestPointerFollowConverges(t *testing.T) {
	ctx, _ := newContext(1)
	p := NewPlayer(testField, ctx.Tuning.Player)
	target := p.X - 50
	ctx.Input.SetPointer(target + p.W/2)

	gap := 50.0
	for i := 1; i <= 10; i++ {
		p.Update(ctx)
		gap *= 0.65
		require.InDelta(t, target+gap, p.X, 1e-9, "frame %d", i)
		require.GreaterOrEqual(t, p.X, target, "no overshoot")

		if gap > 3 {
			assert.Equal(t, TiltLeft, p.Tilt, "frame %d", i)
		} else {
			assert.Equal(t, TiltNone, p.Tilt, "frame %d inside deadzone", i)
		}
	}
}

func TestPointerTargetIsClamped(t *testing.T) {
	ctx, _ := newContext(1)
	p := NewPlayer(testField, ctx.Tuning.Player)
	ctx.Input.SetPointer(10_000)

	for i := 0; i < 100; i++ {
		p.Update(ctx)
	}
	assert.InDelta(t, 450-72.0, p.X, 1e-6)
	assert.Equal(t, TiltNone, p.Tilt)
}

func TestKeysOverridePointerTilt(t *testing.T) {
	ctx, _ := newContext(1)
	p := NewPlayer(testField, ctx.Tuning.Player)
	ctx.Input.SetPointer(0)
	ctx.Input.Press(KeyRight)

	p.Update(ctx)
	assert.Equal(t, TiltRight, p.Tilt)
}

func TestPlayerStaysInsideField(t *testing.T) {
	ctx, _ := newContext(7)
	r := ctx.Rand
	p := NewPlayer(testField, ctx.Tuning.Player)
	keys := []Key{KeyLeft, KeyRight, KeyA, KeyD}

	for i := 0; i < 2000; i++ {
		k := keys[r.Intn(len(keys))]
		if r.Intn(2) == 0 {
			ctx.Input.Press(k)
		} else {
			ctx.Input.Release(k)
		}
		switch r.Intn(4) {
		case 0:
			ctx.Input.SetPointer(r.Float64()*900 - 225)
		case 1:
			ctx.Input.ClearPointer()
		}
		ctx.Delta = frame + time.Duration(r.Intn(20))*time.Millisecond

		p.Update(ctx)

		require.GreaterOrEqual(t, p.X, 0.0)
		require.LessOrEqual(t, p.X, 450-72.0)
	}
}

func TestNarrowFieldPinsPlayer(t *testing.T) {
	ctx, _ := newContext(1)
	ctx.Field = Geometry{Width: 50, Height: 800, SpriteWidth: 72, SpriteHeight: 96}
	p := NewPlayer(ctx.Field, ctx.Tuning.Player)
	ctx.Input.Press(KeyRight)

	p.Update(ctx)
	assert.Zero(t, p.X)
}

func TestAnchorAfterResize(t *testing.T) {
	tuning := config.DefaultTuning().Player
	p := NewPlayer(testField, tuning)
	p.X = 370

	p.Anchor(Geometry{Width: 300, Height: 500, SpriteWidth: 72, SpriteHeight: 96}, tuning)

	assert.InDelta(t, 228.0, p.X, 1e-9)
	assert.InDelta(t, 500-96-20.0, p.Y, 1e-9)
}

func TestPlayerHitboxIsShrunk(t *testing.T) {
	p := &Player{X: 100, Y: 600, W: 72, H: 96}
	box := p.Hitbox(config.DefaultTuning().Collision)

	assert.InDelta(t, 72*0.78, box.W, 1e-9)
	assert.InDelta(t, 96*0.85, box.H, 1e-9)
	assert.InDelta(t, 136.0, box.X+box.W/2, 1e-9)
	assert.InDelta(t, 648.0, box.Y+box.H/2, 1e-9)
}

func TestTiltNames(t *testing.T) {
	assert.Equal(t, "none", TiltNone.String())
	assert.Equal(t, "left", TiltLeft.String())
	assert.Equal(t, "right", TiltRight.String())
}
