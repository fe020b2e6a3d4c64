package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
)

// Job names used in logs and metrics
const (
	JobCleanup      = "idempotency_cleanup"
	JobVoucherReset = "voucher_period_reset"
)

// MaintenanceService holds the periodic jobs. Both are safe to run repeatedly.
type MaintenanceService struct {
	idempotencyRepo repository.IdempotencyRepository
	vouchers        *VoucherSeriesService
	metrics         *metrics.LedgerMetrics
	log             *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	idempotencyRepo repository.IdempotencyRepository,
	vouchers *VoucherSeriesService,
	m *metrics.LedgerMetrics,
	log *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		idempotencyRepo: idempotencyRepo,
		vouchers:        vouchers,
		metrics:         m,
		log:             log,
	}
}

// CleanupExpiredIdempotencyKeys deletes stored responses past their TTL
func (s *MaintenanceService) CleanupExpiredIdempotencyKeys(ctx context.Context) (int64, error) {
	n, err := s.idempotencyRepo.DeleteExpired(ctx)
	s.metrics.JobRun(JobCleanup, err)
	if err != nil {
		s.log.Error("idempotency cleanup failed", zap.Error(err))
		return 0, err
	}
	s.log.Info("idempotency keys cleaned up", zap.Int64("deleted", n))
	return n, nil
}

// ResetVoucherPeriods starts a new issuance period for series still on an old month
func (s *MaintenanceService) ResetVoucherPeriods(ctx context.Context) (int64, error) {
	n, err := s.vouchers.ResetMonthlyPeriod(ctx)
	s.metrics.JobRun(JobVoucherReset, err)
	if err != nil {
		s.log.Error("voucher period reset failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}
