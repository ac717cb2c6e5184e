package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(0, -5, 10))
	assert.Equal(t, 10.0, Clamp(0, 15, 10))
	assert.Equal(t, 4.0, Clamp(0, 4, 10))
	// Inverted bounds resolve to the lower bound.
	assert.Equal(t, 0.0, Clamp(0, 4, -10))
}

func TestRectShrink(t *testing.T) {
	r := Rect{X: 100, Y: 200, W: 100, H: 200}.Shrink(0.22, 0.15)

	assert.InDelta(t, 111.0, r.X, 1e-9)
	assert.InDelta(t, 215.0, r.Y, 1e-9)
	assert.InDelta(t, 78.0, r.W, 1e-9)
	assert.InDelta(t, 170.0, r.H, 1e-9)
}

func TestCircleRectHit(t *testing.T) {
	rect := Rect{X: 0, Y: 0, W: 100, H: 50}

	tests := []struct {
		name   string
		circle Circle
		want   bool
	}{
		{"center inside", Circle{X: 50, Y: 25, Radius: 1}, true},
		{"left edge exactly at radius", Circle{X: -10, Y: 25, Radius: 10}, true},
		{"left edge just inside radius", Circle{X: -10 + 1e-9, Y: 25, Radius: 10}, true},
		{"left edge just outside radius", Circle{X: -10 - 1e-9, Y: 25, Radius: 10}, false},
		{"below bottom edge", Circle{X: 50, Y: 61, Radius: 10}, false},
		{"corner exactly at radius", Circle{X: 103, Y: 54, Radius: 5}, true},
		{"corner outside radius", Circle{X: 104, Y: 54, Radius: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CircleRectHit(tt.circle, rect))
		})
	}
}

func TestCircleRectHitMatchesDistance(t *testing.T) {
	rect := Rect{X: 10, Y: 10, W: 30, H: 20}
	for x := -20.0; x <= 70; x += 2.5 {
		for y := -20.0; y <= 60; y += 2.5 {
			nx := math.Max(rect.X, math.Min(rect.X+rect.W, x))
			ny := math.Max(rect.Y, math.Min(rect.Y+rect.H, y))
			dist := math.Hypot(x-nx, y-ny)
			assert.Equal(t, dist <= 12, CircleRectHit(Circle{X: x, Y: y, Radius: 12}, rect), "x=%v y=%v", x, y)
		}
	}
}

func TestApproach(t *testing.T) {
	assert.InDelta(t, 65.0, Approach(100, 0, 0.35), 1e-9)
	assert.Equal(t, 5.0, Approach(5, 5, 0.35))
}
