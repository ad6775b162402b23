package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dataflow-project/dataflow/internal/config"
	"github.com/dataflow-project/dataflow/internal/logging"
	"github.com/dataflow-project/dataflow/internal/store"
	"github.com/dataflow-project/dataflow/internal/transfer"
	"github.com/dataflow-project/dataflow/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"stores", len(cfg.Stores.Specs),
		"transfer_max_concurrent", cfg.Transfer.MaxConcurrent,
		"status_retention", cfg.Transfer.StatusRetention,
	)

	ctx := context.Background()

	// Open every declared store and verify connectivity
	stores, err := store.NewManager(ctx, cfg.Stores.Specs)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.CloseAll()

	for _, name := range stores.List() {
		st, err := stores.Get(name)
		if err != nil {
			slog.Error("store lookup failed", "store", name, "error", err)
			os.Exit(1)
		}
		if err := st.Ping(ctx); err != nil {
			slog.Error("store unreachable", "store", name, "error", err)
			os.Exit(1)
		}
		slog.Info("store ready", "store", name)
	}

	if cfg.Stores.SeedOnStart {
		if err := store.Seed(ctx, stores); err != nil {
			slog.Error("failed to seed sample data", "error", err)
			os.Exit(1)
		}
		slog.Info("sample data seeded")
	}

	registry := transfer.NewRegistry()
	limiter := transfer.NewLimiter(cfg.Transfer.MaxConcurrent, cfg.Transfer.MaxWaitTime)
	engine := transfer.NewEngine(stores, registry, limiter)

	server := web.NewServer(engine, stores, cfg)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go engine.StartRetentionJob(jobCtx, transfer.RetentionConfig{
		MaxAge:        cfg.Transfer.StatusRetention,
		CheckInterval: cfg.Transfer.RetentionCheckInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let in-flight transfers finish before closing the stores
		if active := engine.Limiter().ActiveCount(); active > 0 {
			slog.Info("waiting for transfers to complete", "active", active)
			if err := engine.Limiter().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("transfers did not complete in time", "error", err)
			} else {
				slog.Info("all transfers completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
