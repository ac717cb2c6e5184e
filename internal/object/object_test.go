package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/meteors/internal/config"
)

const frame = 16 * time.Millisecond

var testField = Geometry{Width: 450, Height: 800, SpriteWidth: 72, SpriteHeight: 96}

// collector is a Spawner that keeps every meteor it receives.
type collector struct {
	meteors []*Meteor
}

func (c *collector) Spawn(m *Meteor) {
	c.meteors = append(c.meteors, m)
}

func newContext(seed int64) (UpdateContext, *collector) {
	tuning := config.DefaultTuning()
	c := &collector{}
	return UpdateContext{
		Delta:   frame,
		Field:   testField,
		Tuning:  &tuning,
		Rand:    rand.New(rand.NewSource(seed)),
		Spawner: c,
	}, c
}
