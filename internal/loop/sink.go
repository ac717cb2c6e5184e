package loop

import (
	"time"

	"github.com/tomz197/meteors/internal/object"
)

// Effect is a transient cosmetic signal for the render sink.
// Effects never feed back into the simulation.
type Effect int

const (
	EffectFlash    Effect = iota // Screen flash on game over
	EffectShake                  // Playfield shake on game over
	EffectScorePop               // Score bump on each point
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectFlash:
		return "flash"
	case EffectShake:
		return "shake"
	case EffectScorePop:
		return "score-pop"
	default:
		return "unknown"
	}
}

// Duration is how long the sink should show the effect.
func (e Effect) Duration() time.Duration {
	switch e {
	case EffectFlash:
		return 320 * time.Millisecond
	case EffectShake:
		return 460 * time.Millisecond
	case EffectScorePop:
		return 150 * time.Millisecond
	default:
		return 0
	}
}

// Sink presents the game. The only values read back are geometry.
type Sink interface {
	// Geometry returns the current playfield and sprite size.
	Geometry() object.Geometry
	DrawPlayer(p *object.Player)
	// DrawMeteors receives the live meteors; the slice is reused by the game.
	DrawMeteors(meteors []*object.Meteor)
	SetScore(score int)
	SetBest(best int)
	ShowOverlay(visible bool)
	Trigger(e Effect)
}

// Store persists the best score in a single slot.
type Store interface {
	LoadBest() (int, error)
	SaveBest(best int) error
}

// Scheduler runs fn once at the host's next frame.
type Scheduler interface {
	RequestFrame(fn func(now time.Time))
}

// nopStore keeps nothing; used when no store is configured.
type nopStore struct{}

func (nopStore) LoadBest() (int, error) { return 0, nil }
func (nopStore) SaveBest(int) error     { return nil }
