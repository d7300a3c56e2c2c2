package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rikkicom/call2fa-go/internal/app"
	"github.com/rikkicom/call2fa-go/internal/config"
	"github.com/rikkicom/call2fa-go/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "call2fa failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	caller, err := app.NewCaller(cfg, logger.Zap{})
	if err != nil {
		logger.ErrorObj("failed to initialize caller", "error", err.Error())
		return err
	}

	if err := caller.Run(ctx); err != nil {
		return fmt.Errorf("caller run: %w", err)
	}

	return nil
}
