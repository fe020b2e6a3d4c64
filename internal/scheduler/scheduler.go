// Package scheduler runs the ledger's periodic maintenance jobs.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/config"
)

const jobTimeout = 5 * time.Minute

// Jobs is the maintenance work the scheduler drives
type Jobs interface {
	CleanupExpiredIdempotencyKeys(ctx context.Context) (int64, error)
	ResetVoucherPeriods(ctx context.Context) (int64, error)
}

// Scheduler runs every job from a single goroutine, so two jobs never overlap.
type Scheduler struct {
	jobs            Jobs
	cleanupInterval time.Duration
	resetInterval   time.Duration
	log             *zap.Logger
}

// New creates a scheduler from the configured intervals
func New(jobs Jobs, cfg config.SchedulerConfig, log *zap.Logger) *Scheduler {
	return &Scheduler{
		jobs:            jobs,
		cleanupInterval: cfg.CleanupInterval,
		resetInterval:   cfg.ResetCheckInterval,
		log:             log.Named("scheduler"),
	}
}

// Run blocks until ctx is cancelled. The period reset runs once on start so a
// month boundary crossed while the service was down is picked up immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	cleanup := time.NewTicker(s.cleanupInterval)
	defer cleanup.Stop()
	reset := time.NewTicker(s.resetInterval)
	defer reset.Stop()

	s.log.Info("scheduler started",
		zap.Duration("cleanup_interval", s.cleanupInterval),
		zap.Duration("reset_interval", s.resetInterval),
	)
	s.run(ctx, "voucher_period_reset", s.jobs.ResetVoucherPeriods)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return nil
		case <-cleanup.C:
			s.run(ctx, "idempotency_cleanup", s.jobs.CleanupExpiredIdempotencyKeys)
		case <-reset.C:
			s.run(ctx, "voucher_period_reset", s.jobs.ResetVoucherPeriods)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, name string, job func(context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		s.log.Warn("job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Debug("job finished",
		zap.String("job", name),
		zap.Int64("affected", n),
		zap.Duration("took", time.Since(start)),
	)
}
