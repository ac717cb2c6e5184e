// Package physics provides collision detection and distance utilities.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Clamp limits v to [lo, hi]. If hi < lo the lower bound wins,
// so a playfield narrower than the sprite pins the sprite at 0.
func Clamp(lo, v, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Shrink returns the rectangle reduced by fw of its width and fh of its
// height, split evenly on both sides, keeping the same center.
func (r Rect) Shrink(fw, fh float64) Rect {
	dw := r.W * fw
	dh := r.H * fh
	return Rect{
		X: r.X + dw/2,
		Y: r.Y + dh/2,
		W: r.W - dw,
		H: r.H - dh,
	}
}

// Circle is a circle given by its center and radius.
type Circle struct {
	X, Y   float64
	Radius float64
}

// CircleRectHit reports whether a circle touches a rectangle. The circle
// center is clamped into the rectangle to find the nearest point; touching
// at exactly the radius counts as a hit.
func CircleRectHit(c Circle, r Rect) bool {
	nx := Clamp(r.X, c.X, r.X+r.W)
	ny := Clamp(r.Y, c.Y, r.Y+r.H)
	return DistanceSquared(c.X, c.Y, nx, ny) <= c.Radius*c.Radius
}

// Approach moves v toward target by factor of the remaining gap.
// The factor is applied once per call, not scaled by time.
func Approach(v, target, factor float64) float64 {
	return v + (target-v)*factor
}
