package object

import (
	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
	"github.com/tomz197/meteors/internal/physics"
)

// Tilt is the discrete lean shown while the ship moves.
type Tilt int

const (
	TiltNone Tilt = iota
	TiltLeft
	TiltRight
)

// String returns the tilt name.
func (t Tilt) String() string {
	switch t {
	case TiltLeft:
		return "left"
	case TiltRight:
		return "right"
	default:
		return "none"
	}
}

// Player is the ship sliding along the bottom of the playfield.
// Position is the top-left corner of the sprite.
type Player struct {
	X, Y float64
	VX   float64
	Tilt Tilt
	W, H float64 // Sprite size used by the last update
}

// NewPlayer creates a player centered at the bottom of the field.
func NewPlayer(field Geometry, t config.PlayerTuning) *Player {
	p := &Player{}
	w, _ := field.Sprite(t)
	p.X = (field.Width - w) / 2
	p.Anchor(field, t)
	return p
}

// Anchor places the player on its bottom line and pulls it back inside
// the field. Used after the field has been resized.
func (p *Player) Anchor(field Geometry, t config.PlayerTuning) {
	w, h := field.Sprite(t)
	p.W, p.H = w, h
	p.X = physics.Clamp(0, p.X, field.Width-w)
	p.Y = field.Height - h - field.Height*t.BottomMargin
}

// Update follows the pointer, applies key velocity or friction, integrates
// and clamps the position, then derives the tilt. Follow and friction are
// per-frame factors.
func (p *Player) Update(ctx UpdateContext) {
	t := ctx.Tuning.Player
	dt := ctx.Seconds()
	w, _ := ctx.Field.Sprite(t)
	maxX := ctx.Field.Width - w

	pointerX, pointing := ctx.Input.Pointer()
	var target float64
	if pointing {
		target = physics.Clamp(0, pointerX-w/2, maxX)
		p.X = physics.Approach(p.X, target, t.PointerFollow)
	}

	left, right := ctx.Input.Left(), ctx.Input.Right()
	switch {
	case left && !right:
		p.VX = -t.Speed
	case right && !left:
		p.VX = t.Speed
	default:
		p.VX *= t.Friction
	}

	p.X += p.VX * dt
	p.X = physics.Clamp(0, p.X, maxX)

	switch {
	case left && !right:
		p.Tilt = TiltLeft
	case right && !left:
		p.Tilt = TiltRight
	default:
		p.Tilt = TiltNone
	}
	if p.Tilt == TiltNone && pointing {
		diff := target - (p.X - p.VX*dt)
		if diff < -t.TiltDeadzone {
			p.Tilt = TiltLeft
		} else if diff > t.TiltDeadzone {
			p.Tilt = TiltRight
		}
	}

	p.Anchor(ctx.Field, t)
}

// Hitbox returns the sprite rectangle shrunk to the ship's body.
func (p *Player) Hitbox(c config.CollisionTuning) physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}.Shrink(c.ShrinkWidth, c.ShrinkHeight)
}

// Draw renders the ship as a filled arrowhead leaning with the tilt.
func (p *Player) Draw(ctx DrawContext) {
	lean := 0.0
	switch p.Tilt {
	case TiltLeft:
		lean = -p.W * 0.15
	case TiltRight:
		lean = p.W * 0.15
	}

	cx := p.X + p.W/2
	points := ctx.Canvas.BorrowPoints(4)
	points[0] = draw.Point{X: cx + lean, Y: p.Y}
	points[1] = draw.Point{X: p.X + p.W, Y: p.Y + p.H*0.85}
	points[2] = draw.Point{X: cx - lean*0.5, Y: p.Y + p.H*0.65}
	points[3] = draw.Point{X: p.X, Y: p.Y + p.H*0.85}
	ctx.Canvas.DrawPolygon(points, true)
}
