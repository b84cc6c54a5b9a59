package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/brandcatalog/internal/app"
	"github.com/utafrali/brandcatalog/internal/config"
	pkgconfig "github.com/utafrali/brandcatalog/pkg/config"
	"github.com/utafrali/brandcatalog/pkg/logger"
	"github.com/utafrali/brandcatalog/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// A local .env file is optional; real environment variables win.
	if err := pkgconfig.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(config.ServiceName, cfg.LogLevel)
	log.Info("starting brand catalog service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("storage", cfg.StorageBackend),
	)

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing())
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	// Create the application with all dependencies wired.
	application, err := app.NewApp(cfg, log, shutdownTracing)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	// Create a context that is canceled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run the application. This blocks until shutdown.
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("run application: %w", err)
	}

	log.Info("brand catalog service stopped")
	return nil
}
