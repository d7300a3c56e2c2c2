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
		fmt.Fprintf(os.Stderr, "callbackd start failed: %v\n", err)
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

	logger.InfoObj("callbackd starting", "startup_meta", map[string]any{
		"app_env":    cfg.Env,
		"port":       cfg.ListenPort,
		"sinks_file": cfg.SinksFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := app.NewListener(ctx, cfg, logger.Zap{})
	if err != nil {
		logger.ErrorObj("failed to initialize listener", "error", err.Error())
		return err
	}

	if err := listener.Run(ctx); err != nil {
		return fmt.Errorf("listener run: %w", err)
	}

	return nil
}
