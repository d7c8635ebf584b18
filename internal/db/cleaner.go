package db

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger permanently removes records soft-deleted before cutoff.
type Purger interface {
	PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartSoftDeleteCleaner purges soft-deleted records older than retention
// every interval until ctx is cancelled. A non-positive interval disables it.
func StartSoftDeleteCleaner(
	ctx context.Context,
	p Purger,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Warn("soft-delete cleaner disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := p.PurgeDeleted(ctx, time.Now().Add(-retention))
				if err != nil {
					log.Error("failed to clean soft-deleted records", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned soft-deleted records", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
