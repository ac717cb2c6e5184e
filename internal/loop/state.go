// Package loop runs the game: the per-frame step, collisions, scoring and
// the running/game-over state machine.
package loop

import (
	"time"

	"github.com/tomz197/meteors/internal/object"
)

// Phase is the game's state machine position.
type Phase int

const (
	PhaseRunning  Phase = iota // Frames are stepping
	PhaseGameOver              // Stopped until restart
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game-over"
	}
	return "running"
}

// State holds everything the simulation mutates. It is owned by one Game
// and only touched inside a frame or a restart.
type State struct {
	Phase   Phase
	Score   int
	Best    int
	Player  *object.Player
	Meteors []*object.Meteor // Insertion order is collision and cull order
	Spawner *object.MeteorSpawner
	Input   object.Intent
	Field   object.Geometry // Geometry read at the start of the frame
	Delta   time.Duration   // Capped frame delta
}

// Running reports whether frames are stepping.
func (s *State) Running() bool {
	return s.Phase == PhaseRunning
}

// Spawn adds a meteor to the set. Implements object.Spawner.
func (s *State) Spawn(m *object.Meteor) {
	s.Meteors = append(s.Meteors, m)
}

// clearMeteors empties the set, dropping references for the collector.
func (s *State) clearMeteors() {
	clear(s.Meteors)
	s.Meteors = s.Meteors[:0]
}
