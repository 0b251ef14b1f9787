package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/milk9111/categories/config"
	"github.com/milk9111/categories/logging"
)

func main() {
	cfg := config.LoadOrDefault()

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	}
	if cfg.Categories.Debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "categories: logger: %v\n", err)
		logger = logging.NewDefault()
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, logger, os.Stdout)
	if err := a.rootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "categories: %v\n", err)
		stop()
		os.Exit(1)
	}
}
