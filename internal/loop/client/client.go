// Package client hosts one game on one terminal: it reads keys and mouse
// reports, paces frames and renders the game with a Screen.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
	"github.com/tomz197/meteors/internal/input"
	"github.com/tomz197/meteors/internal/loop"
	"github.com/tomz197/meteors/internal/object"
)

// Client runs the game loop for a single connection.
type Client struct {
	game         *loop.Game
	screen       *Screen
	frames       *frameScheduler
	state        *ClientState
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	idle         bool          // Warn and disconnect inactive users
	grace        time.Duration // Shutdown countdown
	log          *zap.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Tuning       config.Tuning
	Store        loop.Store  // Best score slot; nil keeps it in memory only
	Logger       *zap.Logger // Optional
	Rand         *rand.Rand  // Optional

	// DisconnectIdle warns inactive users and then ends the session.
	DisconnectIdle bool
	// ShutdownGrace is how long the shutdown notice shows once the context
	// is cancelled. Zero exits at once.
	ShutdownGrace time.Duration
}

// NewClient creates a client reading input from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	screen := NewScreen(w)
	if width, height, err := termSizeFunc(); err == nil {
		screen.Resize(width, height)
	}

	frames := &frameScheduler{}
	game := loop.NewGame(loop.Options{
		Tuning:    opts.Tuning,
		Sink:      screen,
		Scheduler: frames,
		Store:     opts.Store,
		Logger:    logger,
		Rand:      opts.Rand,
	})

	return &Client{
		game:         game,
		screen:       screen,
		frames:       frames,
		state:        NewClientState(),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		idle:         opts.DisconnectIdle,
		grace:        opts.ShutdownGrace,
		log:          logger,
	}
}

// Game returns the hosted game.
func (c *Client) Game() *loop.Game {
	return c.game
}

// Run starts the client loop. Blocks until the user quits, goes idle for
// too long or ctx is cancelled and the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()
	c.game.Start(lastTime)

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput(frameStart)
		c.checkShutdown(ctx)
		if !c.state.Running {
			break
		}
		c.updateScreen()

		// Game frames run after input, like animation callbacks after events.
		c.frames.run(frameStart)

		c.screen.SetBanner(c.banner(frameStart))
		if err := c.screen.Draw(frameStart); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.game.Stop()

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's input and forwards it to the game.
func (c *Client) processInput(now time.Time) {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if len(in.Pressed) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.idle {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.log.Info("disconnecting idle session", zap.Float64("idle_seconds", idle))
			c.state.Running = false
		} else if idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	if in.Quit {
		c.state.Running = false
		return
	}
	c.handleInput(in, now)
}

// handleInput turns frame input into game events. Terminals only report
// presses, so held keys are compared with the previous frame to produce
// key-down and key-up transitions.
func (c *Client) handleInput(in input.Input, now time.Time) {
	held := heldKeys(in)
	for k, down := range held {
		if down == c.state.held[k] {
			continue
		}
		if down {
			c.game.KeyDown(object.Key(k))
		} else {
			c.game.KeyUp(object.Key(k))
		}
	}
	c.state.held = held

	for _, ev := range in.Mouse {
		switch ev.Action {
		case input.MousePress, input.MouseDrag:
			c.game.PointerMove(c.screen.PointerX(ev.Col))
		case input.MouseRelease:
			c.game.PointerEnd()
		}
	}

	if in.Activate {
		c.game.Activate(now)
	}
	if in.Restart {
		c.game.RestartKey(now)
	}
}

// checkShutdown starts the shutdown countdown once ctx is done and ends
// the loop when it runs out.
func (c *Client) checkShutdown(ctx context.Context) {
	if !c.state.shuttingDown {
		select {
		case <-ctx.Done():
			c.state.shuttingDown = true
			c.state.shutdownTimer = c.grace.Seconds()
		default:
			return
		}
	} else {
		c.state.shutdownTimer -= c.state.delta.Seconds()
	}
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// updateScreen follows terminal resizes.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	if c.screen.Resize(termWidth, termHeight) {
		c.game.Relayout()
	}
}

// banner returns the host message for the current state, if any.
func (c *Client) banner(now time.Time) []string {
	switch {
	case c.state.shuttingDown:
		return []string{
			"SERVER SHUTTING DOWN",
			"",
			fmt.Sprintf("bye in %ds", int(c.state.shutdownTimer)+1),
			"Q to leave now",
		}
	case c.state.isInactive:
		left := config.InactivityDisconnectUser - int(now.Sub(c.lastInput).Seconds())
		return []string{
			"STILL THERE?",
			"",
			fmt.Sprintf("bye in %ds", max(left, 0)),
			"press any key",
		}
	}
	return nil
}

// frameScheduler holds the game's next frame until the host loop ticks.
// A frame requested during a tick runs on the next one, so a restart from
// input does not step twice in the same tick.
type frameScheduler struct {
	pending func(now time.Time)
	tick    int // Ticks completed so far
	at      int // Tick the pending frame was requested in
}

func (f *frameScheduler) RequestFrame(fn func(now time.Time)) {
	f.pending = fn
	f.at = f.tick
}

// run fires the pending frame, if any was requested before this tick. The
// frame may request the next one.
func (f *frameScheduler) run(now time.Time) {
	defer func() { f.tick++ }()
	fn := f.pending
	if fn == nil || f.at == f.tick {
		return
	}
	f.pending = nil
	fn(now)
}
