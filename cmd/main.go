package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/lyrx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A second interrupt falls through to the default handler and kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingCredentials):
			logger.Error("cannot start", "error", err)
			logger.Info("tip: set GENIUS_ACCESS_TOKEN in .env or credentials.genius.access_token in config.toml")
			os.Exit(1)
		case errors.Is(err, shared.ErrNoQueries):
			logger.Error("cannot start", "error", err)
			logger.Info("tip: add one search per line to the input file, e.g. \"Obsesión Aventura\"")
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
