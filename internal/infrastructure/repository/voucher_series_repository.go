package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"gorm.io/gorm"
)

var errDefaultSeriesTaken = apperror.NewConflictError("Another default series exists for this voucher type")

type voucherSeriesRepository struct {
	db *gorm.DB
}

// NewVoucherSeriesRepository creates a new voucher series repository
func NewVoucherSeriesRepository(db *gorm.DB) domainRepo.VoucherSeriesRepository {
	return &voucherSeriesRepository{db: db}
}

// Create inserts the series. The row is guarded by two unique indexes (series code and
// one default per voucher type); the insert runs under a savepoint so the surrounding
// transaction can still tell them apart after a violation.
func (r *voucherSeriesRepository) Create(ctx context.Context, series *entity.VoucherSeries) error {
	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(series).Error
	})
	if !isUniqueViolation(err) {
		return err
	}

	exists, existsErr := r.Exists(ctx, series.VoucherType, series.Series)
	if existsErr != nil {
		return existsErr
	}
	if exists {
		return apperror.ErrDuplicateSeries
	}
	return errDefaultSeriesTaken
}

func (r *voucherSeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.VoucherSeries, error) {
	return r.first(ctx, dbFrom(ctx, r.db), "id = ?", id)
}

func (r *voucherSeriesRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.VoucherSeries, error) {
	return r.first(ctx, forUpdate(dbFrom(ctx, r.db)), "id = ?", id)
}

func (r *voucherSeriesRepository) GetDefault(ctx context.Context, voucherType enum.VoucherType) (*entity.VoucherSeries, error) {
	return r.first(ctx, dbFrom(ctx, r.db),
		"voucher_type = ? AND is_default = ? AND is_active = ?", voucherType, true, true)
}

func (r *voucherSeriesRepository) first(ctx context.Context, query *gorm.DB, cond string, args ...interface{}) (*entity.VoucherSeries, error) {
	var series entity.VoucherSeries
	err := query.Scopes(TenantScope(ctx)).Where(cond, args...).First(&series).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &series, err
}

func (r *voucherSeriesRepository) Exists(ctx context.Context, voucherType enum.VoucherType, series string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.VoucherSeries{}).
		Scopes(TenantScope(ctx)).
		Where("voucher_type = ? AND series = ?", voucherType, series).
		Count(&count).Error
	return count > 0, err
}

func (r *voucherSeriesRepository) List(ctx context.Context, params *domainRepo.VoucherSeriesFilterParams) ([]entity.VoucherSeries, error) {
	var list []entity.VoucherSeries
	query := dbFrom(ctx, r.db).Scopes(TenantScope(ctx))
	if params != nil && params.VoucherType != nil {
		query = query.Where("voucher_type = ?", *params.VoucherType)
	}
	if params != nil && params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("voucher_type ASC, series ASC").Find(&list).Error
	return list, err
}

func (r *voucherSeriesRepository) ClearDefault(ctx context.Context, voucherType enum.VoucherType, keepID uuid.UUID) error {
	return dbFrom(ctx, r.db).Model(&entity.VoucherSeries{}).
		Scopes(TenantScope(ctx)).
		Where("voucher_type = ? AND id <> ? AND is_default = ?", voucherType, keepID, true).
		Update("is_default", false).Error
}

func (r *voucherSeriesRepository) Advance(ctx context.Context, series *entity.VoucherSeries) error {
	return dbFrom(ctx, r.db).Model(&entity.VoucherSeries{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", series.ID).
		Updates(map[string]interface{}{
			"current_number":   series.CurrentNumber,
			"issued_in_period": series.IssuedInPeriod,
			"period_key":       series.PeriodKey,
		}).Error
}

func (r *voucherSeriesRepository) UpdateFlags(ctx context.Context, series *entity.VoucherSeries) error {
	err := dbFrom(ctx, r.db).Model(&entity.VoucherSeries{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", series.ID).
		Updates(map[string]interface{}{
			"is_active":  series.IsActive,
			"is_default": series.IsDefault,
		}).Error
	if isUniqueViolation(err) {
		return errDefaultSeriesTaken
	}
	return err
}

// ResetPeriod runs across tenants on behalf of the scheduler, so it is not tenant scoped
func (r *voucherSeriesRepository) ResetPeriod(ctx context.Context, periodKey string) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&entity.VoucherSeries{}).
		Where("period_key <> ? OR period_key IS NULL", periodKey).
		Updates(map[string]interface{}{
			"issued_in_period": 0,
			"period_key":       periodKey,
		})
	return result.RowsAffected, result.Error
}
