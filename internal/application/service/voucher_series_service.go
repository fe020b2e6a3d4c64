package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

var seriesCodePattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)

// VoucherSeriesService issues fiscal voucher numbers. Each issuance locks exactly
// one series row, so numbers are contiguous and never repeat.
type VoucherSeriesService struct {
	tx         repository.Transactor
	seriesRepo repository.VoucherSeriesRepository
	metrics    *metrics.LedgerMetrics
	log        *zap.Logger
	now        func() time.Time
}

// NewVoucherSeriesService creates a new voucher series service
func NewVoucherSeriesService(
	tx repository.Transactor,
	seriesRepo repository.VoucherSeriesRepository,
	m *metrics.LedgerMetrics,
	log *zap.Logger,
) *VoucherSeriesService {
	return &VoucherSeriesService{
		tx:         tx,
		seriesRepo: seriesRepo,
		metrics:    m,
		log:        log,
		now:        utcNow,
	}
}

// CreateSeriesInput represents the create series input
type CreateSeriesInput struct {
	VoucherType   enum.VoucherType
	Series        string
	StartNumber   int64
	IsDefault     bool
	Description   string
	EmissionPoint string
}

// CreateSeries registers a new series. Making it the default demotes the
// previous default of the same voucher type in the same transaction.
func (s *VoucherSeriesService) CreateSeries(ctx context.Context, input *CreateSeriesInput) (*entity.VoucherSeries, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(input.Series))
	if !input.VoucherType.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid voucher type")
	}
	if !seriesCodePattern.MatchString(code) {
		return nil, apperror.NewBadRequestError("Series must be 4 letters or digits")
	}
	start := input.StartNumber
	if start == 0 {
		start = 1
	}
	if start < 1 {
		return nil, apperror.NewBadRequestError("Start number must be at least 1")
	}

	series := &entity.VoucherSeries{
		ID:             uuid.New(),
		TenantID:       tenantID,
		VoucherType:    input.VoucherType,
		Series:         code,
		CurrentNumber:  start,
		IsActive:       true,
		IsDefault:      input.IsDefault,
		Description:    input.Description,
		EmissionPoint:  input.EmissionPoint,
		IssuedInPeriod: 0,
		PeriodKey:      entity.PeriodKeyFor(s.now()),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.seriesRepo.Exists(ctx, series.VoucherType, series.Series)
		if err != nil {
			return err
		}
		if exists {
			return apperror.ErrDuplicateSeries
		}
		if series.IsDefault {
			if err := s.seriesRepo.ClearDefault(ctx, series.VoucherType, series.ID); err != nil {
				return err
			}
		}
		return s.seriesRepo.Create(ctx, series)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetNextNumber issues the current number of an active series and advances it by one
func (s *VoucherSeriesService) GetNextNumber(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherNumber, error) {
	var (
		issued      *entity.VoucherNumber
		voucherType enum.VoucherType
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		series, err := s.seriesRepo.GetByIDForUpdate(ctx, seriesID)
		if err != nil {
			return err
		}
		if series == nil || !series.IsActive {
			return apperror.ErrSeriesNotFoundOrInactive
		}
		voucherType = series.VoucherType
		issued, err = s.advance(ctx, series)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.VoucherIssued(string(voucherType))
	s.log.Debug("voucher number issued", zap.String("full_number", issued.FullNumber))
	return issued, nil
}

// advance must run inside a transaction holding the series lock
func (s *VoucherSeriesService) advance(ctx context.Context, series *entity.VoucherSeries) (*entity.VoucherNumber, error) {
	number := series.CurrentNumber
	period := entity.PeriodKeyFor(s.now())
	if series.PeriodKey != period {
		series.PeriodKey = period
		series.IssuedInPeriod = 0
	}
	series.CurrentNumber = number + 1
	series.IssuedInPeriod++

	if err := s.seriesRepo.Advance(ctx, series); err != nil {
		return nil, err
	}
	return &entity.VoucherNumber{
		SeriesID:   series.ID,
		Series:     series.Series,
		Number:     number,
		FullNumber: entity.FormatVoucherNumber(series.Series, number),
	}, nil
}

// Deactivate stops a series from issuing numbers. The default series cannot be deactivated.
func (s *VoucherSeriesService) Deactivate(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherSeries, error) {
	var series *entity.VoucherSeries
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		series, err = s.seriesRepo.GetByIDForUpdate(ctx, seriesID)
		if err != nil {
			return err
		}
		if series == nil {
			return apperror.ErrSeriesNotFoundOrInactive
		}
		if series.IsDefault {
			return apperror.ErrCannotDeactivateDefault
		}
		if !series.IsActive {
			return nil
		}
		series.IsActive = false
		return s.seriesRepo.UpdateFlags(ctx, series)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// SetDefault makes an active series the default of its voucher type
func (s *VoucherSeriesService) SetDefault(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherSeries, error) {
	var series *entity.VoucherSeries
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		series, err = s.seriesRepo.GetByIDForUpdate(ctx, seriesID)
		if err != nil {
			return err
		}
		if series == nil || !series.IsActive {
			return apperror.ErrSeriesNotFoundOrInactive
		}
		if series.IsDefault {
			return nil
		}
		if err := s.seriesRepo.ClearDefault(ctx, series.VoucherType, series.ID); err != nil {
			return err
		}
		series.IsDefault = true
		return s.seriesRepo.UpdateFlags(ctx, series)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetDefault returns the active default series for a voucher type
func (s *VoucherSeriesService) GetDefault(ctx context.Context, voucherType enum.VoucherType) (*entity.VoucherSeries, error) {
	series, err := s.seriesRepo.GetDefault(ctx, voucherType)
	if err != nil {
		return nil, err
	}
	if series == nil || !series.IsActive {
		return nil, apperror.ErrSeriesNotFoundOrInactive.WithMessage("No active default series for " + string(voucherType))
	}
	return series, nil
}

// List returns the tenant's series, optionally filtered
func (s *VoucherSeriesService) List(ctx context.Context, params *repository.VoucherSeriesFilterParams) ([]entity.VoucherSeries, error) {
	if params.VoucherType != nil && !params.VoucherType.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid voucher type")
	}
	series, err := s.seriesRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if series == nil {
		series = []entity.VoucherSeries{}
	}
	return series, nil
}

// ResetMonthlyPeriod zeroes the per-period issuance counters of every tenant's
// series that still carry an older period key. Running it twice in the same
// month changes nothing the second time. Current numbers are never touched.
func (s *VoucherSeriesService) ResetMonthlyPeriod(ctx context.Context) (int64, error) {
	period := entity.PeriodKeyFor(s.now())
	n, err := s.seriesRepo.ResetPeriod(ctx, period)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("voucher series period reset", zap.String("period", period), zap.Int64("series", n))
	}
	return n, nil
}
