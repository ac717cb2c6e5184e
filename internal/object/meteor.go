package object

import (
	"math"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
	"github.com/tomz197/meteors/internal/physics"
)

// Meteor is a square rock falling straight down while it spins.
// Position is the top-left corner; rotation is cosmetic only.
type Meteor struct {
	X, Y     float64
	Size     float64 // Width and height
	VY       float64 // Fall speed, units per second
	Rotation float64 // Degrees
	Spin     float64 // Degrees per second

	outline []float64 // Vertex distances as a fraction of half the size
}

// BaseFallSpeed is the slowest fall speed at the given score.
func BaseFallSpeed(score int, t config.MeteorTuning) float64 {
	return t.BaseFall + math.Min(float64(score)*t.FallPerPoint, t.FallBonusMax)
}

// NewMeteor creates a meteor just above the top edge with a random size,
// column, fall speed and spin scaled by the current score.
func NewMeteor(ctx UpdateContext) *Meteor {
	t := ctx.Tuning.Meteor
	r := ctx.Rand
	w, h := ctx.Field.Width, ctx.Field.Height

	minW := w * t.MinWidthFrac
	maxW := math.Min(w*t.MaxWidthFrac, h*t.MaxHeightFrac)
	size := physics.Clamp(t.MinSize, between(r, minW, maxW), t.MaxSize)

	base := BaseFallSpeed(ctx.Score, t)
	m := &Meteor{
		X:        math.Round(between(r, 0, w-size)),
		Y:        -size - t.SpawnOffset,
		Size:     size,
		VY:       between(r, base, base+t.FallSpread),
		Rotation: between(r, 0, 360),
		Spin:     between(r, -t.SpinMax, t.SpinMax),
	}

	// Irregular outline, 7-10 vertices varying by ±15%
	m.outline = make([]float64, 7+r.Intn(4))
	for i := range m.outline {
		m.outline[i] = 0.85 + r.Float64()*0.3
	}
	return m
}

// Update advances the meteor and reports whether it has fallen past the
// bottom of the field by more than its own height.
func (m *Meteor) Update(ctx UpdateContext) (passed bool) {
	dt := ctx.Seconds()
	m.Y += m.VY * dt
	m.Rotation += m.Spin * dt
	return m.Y > ctx.Field.Height+m.Size
}

// Hitbox returns the rotation-invariant collision circle.
func (m *Meteor) Hitbox(c config.CollisionTuning) physics.Circle {
	return physics.Circle{
		X:      m.X + m.Size/2,
		Y:      m.Y + m.Size/2,
		Radius: m.Size * c.RadiusFactor,
	}
}

// Draw renders the meteor as an irregular polygon turned by its rotation.
func (m *Meteor) Draw(ctx DrawContext) {
	outline := m.outline
	if len(outline) == 0 {
		outline = squareOutline[:]
	}

	cx := m.X + m.Size/2
	cy := m.Y + m.Size/2
	half := m.Size / 2
	rot := m.Rotation * math.Pi / 180

	points := ctx.Canvas.BorrowPoints(len(outline))
	for i, dist := range outline {
		a := rot + float64(i)*2*math.Pi/float64(len(outline))
		points[i] = draw.Point{
			X: cx + math.Cos(a)*dist*half,
			Y: cy + math.Sin(a)*dist*half,
		}
	}
	ctx.Canvas.DrawPolygon(points, false)
}

var squareOutline = [4]float64{1, 1, 1, 1}
