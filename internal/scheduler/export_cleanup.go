package scheduler

import (
	"context"
	"time"

	"leadqual_backend/platform/logger"
)

const (
	defaultExportCleanupInterval = time.Hour
	defaultExportRetention       = 7 * 24 * time.Hour
)

// ExportPruner deletes export snapshots older than a cutoff.
type ExportPruner interface {
	PruneExports(ctx context.Context, cutoff time.Time) (int, error)
}

// ExportCleanup periodically removes old result export snapshots.
type ExportCleanup struct {
	pruner    ExportPruner
	log       *logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

func NewExportCleanup(pruner ExportPruner, log *logger.Logger, interval, retention time.Duration) *ExportCleanup {
	if interval <= 0 {
		interval = defaultExportCleanupInterval
	}
	if retention <= 0 {
		retention = defaultExportRetention
	}

	return &ExportCleanup{
		pruner:    pruner,
		log:       log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

func (c *ExportCleanup) Run(ctx context.Context) {
	if c == nil || c.pruner == nil {
		return
	}

	c.cleanup(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *ExportCleanup) cleanup(ctx context.Context) {
	deleted, err := c.pruner.PruneExports(ctx, c.now().Add(-c.retention))
	if err != nil {
		c.log.Warn("export cleanup failed", "error", err, "deleted", deleted)
		return
	}

	if deleted > 0 {
		c.log.Info("export cleanup deleted old snapshots", "deleted", deleted)
	}
}
