package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// VoucherSeriesRepository defines voucher series persistence
type VoucherSeriesRepository interface {
	Create(ctx context.Context, series *entity.VoucherSeries) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.VoucherSeries, error)
	// GetByIDForUpdate loads the series and holds its row lock until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.VoucherSeries, error)
	Exists(ctx context.Context, voucherType enum.VoucherType, series string) (bool, error)
	GetDefault(ctx context.Context, voucherType enum.VoucherType) (*entity.VoucherSeries, error)
	List(ctx context.Context, params *VoucherSeriesFilterParams) ([]entity.VoucherSeries, error)
	// ClearDefault unsets is_default on every series of the type except keepID
	ClearDefault(ctx context.Context, voucherType enum.VoucherType, keepID uuid.UUID) error
	// Advance persists the next number and bumps the period counter of a locked series
	Advance(ctx context.Context, series *entity.VoucherSeries) error
	UpdateFlags(ctx context.Context, series *entity.VoucherSeries) error
	// ResetPeriod zeroes the period counter of every series, of every tenant,
	// whose period key differs from periodKey. Returns the number of series reset.
	ResetPeriod(ctx context.Context, periodKey string) (int64, error)
}

// VoucherSeriesFilterParams filters series listings
type VoucherSeriesFilterParams struct {
	VoucherType *enum.VoucherType
	ActiveOnly  bool
}
