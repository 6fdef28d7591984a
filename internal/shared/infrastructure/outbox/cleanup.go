package outbox

import (
	"context"
	"log/slog"
	"time"
)

// RunCleanup deletes published messages older than retentionDays every
// interval until ctx is done.
func RunCleanup(ctx context.Context, repo Repository, interval time.Duration, retentionDays int, logger *slog.Logger) {
	if interval <= 0 || retentionDays <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteOld(ctx, retentionDays)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", retentionDays)
			}
		}
	}
}
