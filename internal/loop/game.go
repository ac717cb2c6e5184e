package loop

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/object"
)

// Options configures a Game. Sink and Scheduler are required.
type Options struct {
	Tuning    config.Tuning
	Sink      Sink
	Scheduler Scheduler
	Store     Store       // Optional; best score is not persisted without it
	Logger    *zap.Logger // Optional
	Rand      *rand.Rand  // Optional; seeded from the clock when nil
}

// Game drives one player's session: the frame step, the running/game-over
// state machine and best-score bookkeeping.
//
// A Game is not safe for concurrent use. The host calls Frame (through its
// Scheduler), Restart and the input methods from a single goroutine.
type Game struct {
	state     *State
	tuning    config.Tuning
	clock     *Clock
	sink      Sink
	scheduler Scheduler
	store     Store
	log       *zap.Logger
	rng       *rand.Rand
	scheduled bool // A frame is waiting in the scheduler
}

// NewGame creates a game in the running phase with the player centered on
// the bottom line and the best score read from the store. Frames start with Start.
func NewGame(opts Options) *Game {
	g := &Game{
		tuning:    opts.Tuning,
		clock:     NewClock(opts.Tuning.Clock.MaxStep),
		sink:      opts.Sink,
		scheduler: opts.Scheduler,
		store:     opts.Store,
		log:       opts.Logger,
		rng:       opts.Rand,
	}
	if g.store == nil {
		g.store = nopStore{}
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	field := g.sink.Geometry()
	g.state = &State{
		Phase:   PhaseRunning,
		Best:    g.loadBest(),
		Player:  object.NewPlayer(field, g.tuning.Player),
		Spawner: object.NewMeteorSpawner(g.tuning.Spawn),
		Field:   field,
	}

	g.sink.SetScore(0)
	g.sink.SetBest(g.state.Best)
	g.sink.ShowOverlay(false)
	g.sink.DrawPlayer(g.state.Player)
	return g
}

// loadBest reads the persisted best score. Missing or unreadable values count as 0.
func (g *Game) loadBest() int {
	best, err := g.store.LoadBest()
	if err != nil {
		g.log.Warn("best score unreadable, starting from 0", zap.Error(err))
		return 0
	}
	return max(best, 0)
}

// Start runs the first frame at now and keeps frames coming while running.
func (g *Game) Start(now time.Time) {
	g.clock.Reset(now)
	g.log.Debug("game started", zap.Int("best", g.state.Best))
	g.Frame(now)
}

// Frame is the frame driver: one step, then the next frame is requested
// while the game is still running. Once the game is over, Frame stops
// rescheduling itself.
func (g *Game) Frame(now time.Time) {
	g.scheduled = false
	if !g.state.Running() {
		return
	}

	g.state.Delta = g.clock.Tick(now)
	g.step()

	if g.state.Running() {
		g.requestFrame()
	}
}

func (g *Game) requestFrame() {
	if g.scheduled {
		return
	}
	g.scheduled = true
	g.scheduler.RequestFrame(g.Frame)
}

// step advances the player, the meteors and the spawner by one frame.
func (g *Game) step() {
	s := g.state
	s.Field = g.sink.Geometry()
	ctx := g.updateContext()

	s.Player.Update(ctx)
	g.sink.DrawPlayer(s.Player)

	if g.updateMeteors(ctx) {
		g.gameOver()
	}

	if s.Running() {
		ctx.Score = s.Score
		s.Spawner.Tick(ctx)
	}
	g.sink.DrawMeteors(s.Meteors)
}

// updateContext creates an UpdateContext from the current state.
func (g *Game) updateContext() object.UpdateContext {
	return object.UpdateContext{
		Delta:   g.state.Delta,
		Input:   g.state.Input,
		Field:   g.state.Field,
		Score:   g.state.Score,
		Tuning:  &g.tuning,
		Rand:    g.rng,
		Spawner: g.state,
	}
}

// addPoint scores one meteor that made it past the player.
func (g *Game) addPoint() {
	g.state.Score++
	g.sink.SetScore(g.state.Score)
	g.sink.Trigger(EffectScorePop)
}

// gameOver stops the session after a collision.
func (g *Game) gameOver() {
	s := g.state
	if !s.Running() {
		return
	}
	s.Phase = PhaseGameOver

	g.sink.Trigger(EffectFlash)
	g.sink.Trigger(EffectShake)
	g.sink.ShowOverlay(true)

	g.commitBest()
	g.sink.SetBest(s.Best)

	g.log.Info("game over",
		zap.Int("score", s.Score),
		zap.Int("best", s.Best),
		zap.Int("meteors", len(s.Meteors)),
	)
}

// commitBest raises and persists the best score if the current score beats it.
func (g *Game) commitBest() {
	s := g.state
	if s.Score <= s.Best {
		return
	}
	s.Best = s.Score
	if err := g.store.SaveBest(s.Best); err != nil {
		g.log.Warn("failed to save best score", zap.Int("best", s.Best), zap.Error(err))
		return
	}
	g.log.Info("new best score", zap.Int("best", s.Best))
}

// Restart begins a new session: the meteor set, score, spawner, player
// velocity and pointer are reset and frames resume at now. A score still
// on the board counts toward the best score first.
func (g *Game) Restart(now time.Time) {
	s := g.state
	from := s.Phase

	g.commitBest()
	g.sink.SetBest(s.Best)

	s.clearMeteors()
	s.Score = 0
	s.Phase = PhaseRunning
	s.Player.VX = 0
	s.Input.ClearPointer()
	s.Spawner.Reset(g.tuning.Spawn)
	g.clock.Reset(now)

	g.sink.SetScore(0)
	g.sink.ShowOverlay(false)
	g.sink.DrawMeteors(s.Meteors)

	if g.scheduled {
		// Restarted while running: the pending frame continues the loop.
		return
	}
	g.log.Debug("game restarted", zap.Stringer("from", from), zap.Int("best", s.Best))
	g.Frame(now)
}

// Stop ends the session without a restart, e.g. when the player leaves.
// A score still on the board counts toward the best score.
func (g *Game) Stop() {
	s := g.state
	if !s.Running() {
		return
	}
	s.Phase = PhaseGameOver
	g.commitBest()
	g.sink.SetBest(s.Best)
	g.log.Debug("game stopped", zap.Int("score", s.Score), zap.Int("best", s.Best))
}

// Activate handles a click or tap. It restarts a finished game.
func (g *Game) Activate(now time.Time) {
	if !g.state.Running() {
		g.Restart(now)
	}
}

// RestartKey handles the restart key. It restarts a finished game.
func (g *Game) RestartKey(now time.Time) {
	if !g.state.Running() {
		g.Restart(now)
	}
}

// KeyDown marks a direction binding as held.
func (g *Game) KeyDown(k object.Key) {
	g.state.Input.Press(k)
}

// KeyUp releases a direction binding.
func (g *Game) KeyUp(k object.Key) {
	g.state.Input.Release(k)
}

// PointerMove sets the pointer target in playfield x units. It covers both
// the start of a touch and its movement.
func (g *Game) PointerMove(x float64) {
	g.state.Input.SetPointer(x)
}

// PointerEnd drops the pointer target.
func (g *Game) PointerEnd() {
	g.state.Input.ClearPointer()
}

// Relayout re-anchors the player after the playfield changed size. Works
// in both phases.
func (g *Game) Relayout() {
	s := g.state
	s.Field = g.sink.Geometry()
	s.Player.Anchor(s.Field, g.tuning.Player)
	g.sink.DrawPlayer(s.Player)
}

// Running reports whether the game is stepping frames.
func (g *Game) Running() bool {
	return g.state.Running()
}

// Score returns the current session score.
func (g *Game) Score() int {
	return g.state.Score
}

// Best returns the best score so far.
func (g *Game) Best() int {
	return g.state.Best
}

// State exposes the simulation state for inspection. Callers must not
// mutate it while the game is running.
func (g *Game) State() *State {
	return g.state
}
