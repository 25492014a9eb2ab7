// Command authstub runs a local double of the remote authentication
// service so the session engine can be exercised without the real backend.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/config"
	"github.com/spec-kit/hiredesk-session/internal/observability"
	"github.com/spec-kit/hiredesk-session/internal/stubserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts := stubserver.AccountRegistry(stubserver.NewMemoryRegistry())
	if cfg.Stub.PostgresDSN != "" {
		pgAccounts, closePool, err := stubserver.NewPostgresRegistry(ctx, cfg.Stub.PostgresDSN, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer closePool()
		accounts = pgAccounts
	}

	metrics := observability.NewMetrics()
	app := stubserver.NewApp(cfg.Stub, accounts, logger, metrics)

	go func() {
		logger.Info("auth stub listening", zap.String("addr", cfg.Stub.Addr()))
		if err := app.Listen(cfg.Stub.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
