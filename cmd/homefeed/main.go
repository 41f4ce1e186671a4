package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seonu/homefeed-go/internal/app"
	"github.com/seonu/homefeed-go/internal/config"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("homefeed starting...",
		zap.String("log_level", cfg.Logging.Level),
		zap.Bool("redis_backend", cfg.Redis.Enabled),
	)

	container, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := container.Server.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerConfig.ShutdownTimeout)
	defer cancel()
	if err := container.Server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown incomplete", zap.Error(err))
	}

	logger.Info("homefeed stopped")
}
