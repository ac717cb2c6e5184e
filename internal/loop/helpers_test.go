package loop

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/object"
)

const frameStep = 16 * time.Millisecond

// recordingSink captures everything the game reports.
type recordingSink struct {
	geometry object.Geometry
	player   object.Player
	meteors  int
	score    int
	scores   []int
	best     int
	overlay  bool
	effects  []Effect
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		geometry: object.Geometry{Width: 450, Height: 800, SpriteWidth: 72, SpriteHeight: 96},
	}
}

func (s *recordingSink) Geometry() object.Geometry { return s.geometry }
func (s *recordingSink) DrawPlayer(p *object.Player) { s.player = *p }
func (s *recordingSink) DrawMeteors(ms []*object.Meteor) { s.meteors = len(ms) }
func (s *recordingSink) SetBest(best int) { s.best = best }
func (s *recordingSink) ShowOverlay(visible bool) { s.overlay = visible }
func (s *recordingSink) Trigger(e Effect) { s.effects = append(s.effects, e) }

func (s *recordingSink) SetScore(score int) {
	s.score = score
	s.scores = append(s.scores, score)
}

func (s *recordingSink) count(e Effect) int {
	n := 0
	for _, got := range s.effects {
		if got == e {
			n++
		}
	}
	return n
}

// manualScheduler holds requested frames until the test fires them.
type manualScheduler struct {
	pending  []func(time.Time)
	now      time.Time
	requests int
}

func (m *manualScheduler) RequestFrame(fn func(time.Time)) {
	m.pending = append(m.pending, fn)
	m.requests++
}

// advance moves time forward by d and fires the pending frames.
func (m *manualScheduler) advance(d time.Duration) {
	m.now = m.now.Add(d)
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn(m.now)
	}
}

// memStore is an in-memory Store with optional failures.
type memStore struct {
	best    int
	saves   []int
	loadErr error
	saveErr error
}

func (m *memStore) LoadBest() (int, error) { return m.best, m.loadErr }

func (m *memStore) SaveBest(best int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.best = best
	m.saves = append(m.saves, best)
	return nil
}

var errStoreDown = errors.New("store down")

type harness struct {
	game  *Game
	sink  *recordingSink
	sched *manualScheduler
	store *memStore
}

func newHarness(t *testing.T, best int) *harness {
	t.Helper()
	h := &harness{
		sink:  newRecordingSink(),
		sched: &manualScheduler{now: time.Unix(1000, 0)},
		store: &memStore{best: best},
	}
	h.game = NewGame(Options{
		Tuning:    config.DefaultTuning(),
		Sink:      h.sink,
		Scheduler: h.sched,
		Store:     h.store,
		Logger:    zaptest.NewLogger(t),
		Rand:      rand.New(rand.NewSource(42)),
	})
	return h
}

// start runs the first frame at the scheduler's clock.
func (h *harness) start() {
	h.game.Start(h.sched.now)
}

// dropOnPlayer places a meteor squarely over the player.
func (h *harness) dropOnPlayer() *object.Meteor {
	p := h.game.State().Player
	m := &object.Meteor{
		X:    p.X + p.W/2 - 50,
		Y:    p.Y + p.H/2 - 50,
		Size: 100,
		VY:   400,
	}
	h.game.State().Spawn(m)
	return m
}

// crash ends the running session with the given score.
func (h *harness) crash(score int) {
	h.game.State().Score = score
	h.dropOnPlayer()
	h.sched.advance(frameStep)
}
