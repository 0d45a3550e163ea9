package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/logger"
	"github.com/xavierca1/jetleads/internal/metrics"
)

// Purger deletes rows whose retention window ended before now.
type Purger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type RetentionWorker struct {
	purgers      map[string]Purger
	tickInterval time.Duration
	now          func() time.Time
}

// NewRetentionWorker takes purgers keyed by table name.
func NewRetentionWorker(purgers map[string]Purger, interval time.Duration) *RetentionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RetentionWorker{
		purgers:      purgers,
		tickInterval: interval,
		now:          time.Now,
	}
}

// Start sweeps once immediately, then on every tick until ctx is cancelled.
func (w *RetentionWorker) Start(ctx context.Context) {
	logrus.WithField("interval", w.tickInterval.String()).Info("retention worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("retention worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one pass over every table and returns rows deleted per table.
// A failing table is logged and does not stop the others.
func (w *RetentionWorker) Sweep(ctx context.Context) map[string]int64 {
	now := w.now().UTC()
	purged := make(map[string]int64, len(w.purgers))

	for table, p := range w.purgers {
		n, err := p.DeleteExpired(ctx, now)
		if err != nil {
			logger.LogError("retention_sweep_failed", err, map[string]interface{}{"table": table})
			continue
		}
		purged[table] = n
		metrics.RecordPurged(table, n)
		if n > 0 {
			logrus.WithFields(logrus.Fields{"table": table, "deleted": n}).Info("expired records purged")
		}
	}
	return purged
}
