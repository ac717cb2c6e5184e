package loop

import (
	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/object"
	"github.com/tomz197/meteors/internal/physics"
)

// hitsPlayer tests a meteor's circle against the player's shrunk rectangle.
func hitsPlayer(m *object.Meteor, box physics.Rect, c config.CollisionTuning) bool {
	return physics.CircleRectHit(m.Hitbox(c), box)
}

// updateMeteors advances every meteor in set order. The first meteor that
// touches the player stops the pass and is reported; meteors after it are
// left where they were. Meteors that fell out of the field are removed and
// scored.
func (g *Game) updateMeteors(ctx object.UpdateContext) (hit bool) {
	s := g.state
	box := s.Player.Hitbox(g.tuning.Collision)

	meteors := s.Meteors
	kept := meteors[:0]
	for i, m := range meteors {
		passed := m.Update(ctx)

		if hitsPlayer(m, box, g.tuning.Collision) {
			kept = append(kept, meteors[i:]...)
			hit = true
			break
		}

		if passed {
			g.addPoint()
			continue
		}
		kept = append(kept, m)
	}

	// Zero the tail so culled meteors can be collected.
	clear(meteors[len(kept):])
	s.Meteors = kept
	return hit
}
