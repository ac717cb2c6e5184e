package object

import (
	"math"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/physics"
)

// MeteorSpawner releases meteors on an interval that shrinks as the score
// rises, sometimes two at once.
type MeteorSpawner struct {
	Clock float64 // Milliseconds accumulated since the last spawn
	Gap   float64 // Smoothed spawn interval in milliseconds
	Bias  float64 // Extra double-spawn chance, decays toward 0
}

// NewMeteorSpawner creates a spawner at its initial interval.
func NewMeteorSpawner(t config.SpawnTuning) *MeteorSpawner {
	s := &MeteorSpawner{}
	s.Reset(t)
	return s
}

// Reset returns the spawner to its initial state.
func (s *MeteorSpawner) Reset(t config.SpawnTuning) {
	s.Clock = 0
	s.Gap = t.InitialGap
	s.Bias = 0
}

// TargetGap is the interval the spawner drifts toward at the given score.
func TargetGap(score int, t config.SpawnTuning) float64 {
	return math.Max(t.MinGap, t.InitialGap-float64(score)*t.GapPerPoint)
}

// DoubleChance is the probability of a second meteor on each spawn.
func (s *MeteorSpawner) DoubleChance(score int, t config.SpawnTuning) float64 {
	return math.Min(t.DoubleMax, t.DoubleBase+float64(score)*t.DoublePerPoint+s.Bias)
}

// Tick accumulates the frame time, smooths the interval one step toward its
// target and spawns for every interval that has elapsed. Returns the number
// of meteors spawned.
func (s *MeteorSpawner) Tick(ctx UpdateContext) int {
	t := ctx.Tuning.Spawn
	s.Clock += ctx.Millis()
	s.Gap = physics.Approach(s.Gap, TargetGap(ctx.Score, t), t.GapSmoothing)

	spawned := 0
	for s.Clock >= s.Gap {
		s.Clock -= s.Gap
		ctx.Spawner.Spawn(NewMeteor(ctx))
		spawned++

		if ctx.Rand.Float64() < s.DoubleChance(ctx.Score, t) {
			ctx.Spawner.Spawn(NewMeteor(ctx))
			spawned++
		}
		// Nothing raises Bias; it only decays.
		s.Bias = math.Max(0, s.Bias*t.BiasDecay)
	}
	return spawned
}
