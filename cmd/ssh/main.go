package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/draw"
	meteorslog "github.com/tomz197/meteors/internal/logging"
	"github.com/tomz197/meteors/internal/loop/client"
	"github.com/tomz197/meteors/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "/app/data/meteors.db"

	sessionDrainTimeout = 15 * time.Second
	serverStopTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssh server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := meteorslog.New(config.GetEnv("METEORS_LOG_LEVEL", "info"), config.GetEnv("METEORS_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer logger.Sync()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("METEORS_DB", defaultDBPath)
	logger.Info("ssh config",
		zap.String("host", host),
		zap.String("port", port),
		zap.String("host_key", hostKeyPath),
		zap.String("db", dbPath),
	)

	tuning, err := config.LoadTuning(config.GetEnv("METEORS_CONFIG", ""))
	if err != nil {
		return err
	}

	db, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	sessions := &sessionHost{
		ctx:    gctx,
		db:     db,
		tuning: tuning,
		log:    logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g.Go(func() error {
		logger.Info("starting ssh server", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server, notifying players")

		// Sessions watch gctx and show the shutdown notice before leaving.
		if !sessions.wait(sessionDrainTimeout) {
			logger.Warn("sessions still open after drain timeout")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverStopTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// sessionHost runs one independent game per SSH session. Sessions share
// only the score database.
type sessionHost struct {
	ctx    context.Context
	db     *store.Store
	tuning config.Tuning
	log    *zap.Logger

	mu       sync.Mutex
	draining bool // Set by wait; no session may join after it
	wg       sync.WaitGroup
}

// enter registers a new session. Reports false once the server is
// shutting down.
func (h *sessionHost) enter() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.draining || h.ctx.Err() != nil {
		return false
	}
	h.wg.Add(1)
	return true
}

// middleware handles SSH sessions and runs the game client.
func (h *sessionHost) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		if !h.enter() {
			fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
			return
		}
		defer h.wg.Done()

		id := uuid.NewString()
		slot := store.UserSlot(sess.User())
		log := h.log.With(zap.String("session", id), zap.String("slot", slot))
		log.Info("new game session",
			zap.String("term", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height),
		)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc:   sizeTracker.getSize,
			Tuning:         h.tuning,
			Store:          h.db.Slot(slot, id),
			Logger:         log,
			DisconnectIdle: true,
			ShutdownGrace:  config.ShutdownDisplaySeconds * time.Second,
		})
		if err := c.Run(h.ctx); err != nil {
			log.Warn("game error", zap.Error(err))
		}

		log.Info("session ended", zap.Int("best", c.Game().Best()))
		next(sess)
	}
}

// wait stops new sessions from joining and blocks until every session has
// ended or timeout passes. Reports whether all sessions ended.
func (h *sessionHost) wait(timeout time.Duration) bool {
	h.mu.Lock()
	h.draining = true
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
