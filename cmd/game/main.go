package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/meteors/internal/config"
	"github.com/tomz197/meteors/internal/logging"
	"github.com/tomz197/meteors/internal/loop"
	"github.com/tomz197/meteors/internal/loop/client"
	"github.com/tomz197/meteors/internal/store"
)

const (
	defaultLogFile = "meteors.log"
	defaultDBPath  = "meteors.db"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("meteors needs an interactive terminal")
	}

	// The terminal is the screen, so logs go to a file.
	logger, err := logging.New(
		config.GetEnv("METEORS_LOG_LEVEL", "info"),
		config.GetEnv("METEORS_LOG_FILE", defaultLogFile),
	)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tuning, err := config.LoadTuning(config.GetEnv("METEORS_CONFIG", ""))
	if err != nil {
		return err
	}

	var best loop.Store = &store.Memory{}
	if path := config.GetEnv("METEORS_DB", defaultDBPath); path != "" {
		db, err := store.Open(path, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		best = db.Slot(config.DefaultBestSlot, "local")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Tuning: tuning,
		Store:  best,
		Logger: logger,
	})
	logger.Info("local game started", zap.Int("target_fps", config.ClientTargetFPS))
	if err := c.Run(ctx); err != nil {
		return err
	}
	logger.Info("local game ended", zap.Int("best", c.Game().Best()))
	return nil
}
