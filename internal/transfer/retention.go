package transfer

// retention.go provides the background job that keeps the in-memory status
// registry from growing without bound. Terminal statuses older than the
// retention window are pruned periodically; running transfers are never
// touched.
//
// The job is long-running and context-aware for graceful shutdown. Pruning
// is best effort: the registry is authoritative only for this process's
// lifetime anyway.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the status retention job.
// Zero values get sensible defaults.
type RetentionConfig struct {
	MaxAge        time.Duration // How long terminal statuses are kept (default: 24h)
	CheckInterval time.Duration // How often to prune (default: 1h)
}

// StartRetentionJob starts a background goroutine that periodically prunes
// old terminal statuses from the registry. It runs once immediately, then
// every CheckInterval, and stops when the context is cancelled.
func (e *Engine) StartRetentionJob(ctx context.Context, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 24 * time.Hour
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Hour
	}

	slog.Info("status retention job started",
		"max_age", cfg.MaxAge,
		"check_interval", cfg.CheckInterval,
	)

	e.pruneOnce(cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("status retention job stopped")
			return
		case <-ticker.C:
			e.pruneOnce(cfg)
		}
	}
}

func (e *Engine) pruneOnce(cfg RetentionConfig) {
	removed := e.registry.Prune(cfg.MaxAge, time.Now())
	if removed > 0 {
		slog.Info("pruned transfer statuses",
			"removed", removed,
			"remaining", e.registry.Len(),
		)
	}
}
