// Package object holds the entities of the simulation: the player ship,
// meteors, the meteor spawner and HUD text.
package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
)

// Spawner receives meteors created during an update.
type Spawner interface {
	Spawn(m *Meteor)
}

// Geometry is the layout reported by the render sink each frame.
// Sprite dimensions are zero until the sink has measured the sprite.
type Geometry struct {
	Width, Height             float64 // Playfield
	SpriteWidth, SpriteHeight float64 // Player sprite
}

// Sprite returns the player sprite size. Unmeasured dimensions fall back
// to a fraction of the playfield height.
func (g Geometry) Sprite(t config.PlayerTuning) (w, h float64) {
	fallback := g.Height * t.SpriteFallback
	w, h = g.SpriteWidth, g.SpriteHeight
	if h <= 0 {
		h = fallback
	}
	if w <= 0 {
		w = fallback * t.SpriteAspect
	}
	return w, h
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Input   Intent
	Field   Geometry
	Score   int
	Tuning  *config.Tuning
	Rand    *rand.Rand
	Spawner Spawner
}

// Seconds returns the frame delta in seconds.
func (ctx UpdateContext) Seconds() float64 {
	return ctx.Delta.Seconds()
}

// Millis returns the frame delta in fractional milliseconds.
func (ctx UpdateContext) Millis() float64 {
	return float64(ctx.Delta) / float64(time.Millisecond)
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // Scaled canvas in playfield units
}

// between returns a uniform sample in [a, b).
func between(r *rand.Rand, a, b float64) float64 {
	return a + r.Float64()*(b-a)
}
