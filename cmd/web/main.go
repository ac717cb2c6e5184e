package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/logging"
	"github.com/tomz197/meteors/internal/store"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/meteors.db"

	defaultBoardSize = 10
	queryTimeout     = 2 * time.Second
	stopTimeout      = 5 * time.Second
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(htmlPage))

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "web server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := logging.New(config.GetEnv("METEORS_LOG_LEVEL", "info"), config.GetEnv("METEORS_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer logger.Sync()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	// The board is optional; the page works without a database.
	var scores leaderboard
	if path := config.GetEnv("METEORS_DB", defaultDBPath); path != "" {
		db, err := store.Open(path, logger)
		if err != nil {
			logger.Warn("leaderboard disabled", zap.Error(err))
		} else {
			defer db.Close()
			scores = db
		}
	}

	page := &landingPage{
		sshHost:   config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		sshPort:   config.GetEnv("SSH_PORT", "2222"),
		scores:    scores,
		boardSize: config.GetEnvInt("WEB_BOARD_SIZE", defaultBoardSize),
		log:       logger,
	}

	mux := http.NewServeMux()
	mux.Handle("/", page)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting web server", zap.String("addr", "http://"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// leaderboard lists the best per-user scores.
type leaderboard interface {
	Top(ctx context.Context, prefix string, n int) ([]store.Entry, error)
}

// landingPage renders connection instructions and the leaderboard.
type landingPage struct {
	sshHost   string
	sshPort   string
	scores    leaderboard
	boardSize int
	log       *zap.Logger
}

type pageData struct {
	SSHHost string
	SSHPort string
	Scores  []store.Entry
}

func (p *landingPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{SSHHost: p.sshHost}
	if p.sshPort != "22" {
		data.SSHPort = p.sshPort
	}
	if p.scores != nil && p.boardSize > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		entries, err := p.scores.Top(ctx, store.UserPrefix, p.boardSize)
		if err != nil {
			p.log.Warn("leaderboard query failed", zap.Error(err))
		}
		data.Scores = entries
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		p.log.Warn("failed to render page", zap.Error(err))
	}
}
