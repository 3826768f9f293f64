package history

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper trims plan_runs on an interval so the table stays bounded.
type Sweeper struct {
	Store *Store

	Interval  time.Duration
	Retention time.Duration

	logger *zap.Logger
}

func NewSweeper(store *Store, retention time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		Store:     store,
		Interval:  time.Hour,
		Retention: retention,
		logger:    logger.Named("Sweeper"),
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce deletes runs older than the retention window. Failures are
// logged and retried on the next tick.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.Retention)

	n, err := s.Store.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("removed expired runs",
			zap.Int64("deleted", n),
			zap.Time("cutoff", cutoff))
	}
}
