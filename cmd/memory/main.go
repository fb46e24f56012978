package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"memory/internal/config"
	"memory/internal/console"
	"memory/internal/game/memory"
	"memory/internal/observability"
	"memory/internal/session"
	"memory/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("game aborted", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	m, err := memory.New(cfg.Board.Rows, cfg.Board.Columns, memory.DefaultSource())
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}

	sess := session.New(m, console.NewStream(os.Stdin, os.Stdout), store, logger)
	return sess.Run()
}
