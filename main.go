package main

import (
	"context"
	"log/slog"
	"merquelo/app"
	"merquelo/config"
	"merquelo/config/setup"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	// stdout carries command output, so logs go to stderr
	logger := setup.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg.DBPath, logger)
	defer setup.Shutdown(application)

	root := setup.NewRootCmd(cfg, application)
	err := root.ExecuteContext(ctx)

	return setup.HandleError(os.Stderr, err)
}
