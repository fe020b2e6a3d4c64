package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"github.com/sangkips/hotel-ledger-api/pkg/pagination"
	"gorm.io/gorm"
)

type cashierSessionRepository struct {
	db *gorm.DB
}

// NewCashierSessionRepository creates a new cashier session repository
func NewCashierSessionRepository(db *gorm.DB) domainRepo.CashierSessionRepository {
	return &cashierSessionRepository{db: db}
}

// Create inserts the session. The partial unique index on open sessions turns a
// concurrent second open into ErrSessionAlreadyOpen.
func (r *cashierSessionRepository) Create(ctx context.Context, session *entity.CashierSession) error {
	err := dbFrom(ctx, r.db).Create(session).Error
	if isUniqueViolation(err) {
		return apperror.ErrSessionAlreadyOpen
	}
	return err
}

func (r *cashierSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	return r.first(ctx, dbFrom(ctx, r.db), "id = ?", id)
}

func (r *cashierSessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error) {
	return r.first(ctx, forUpdate(dbFrom(ctx, r.db)), "id = ?", id)
}

func (r *cashierSessionRepository) GetOpen(ctx context.Context) (*entity.CashierSession, error) {
	return r.first(ctx, dbFrom(ctx, r.db), "status = ?", enum.CashierSessionOpen)
}

func (r *cashierSessionRepository) first(ctx context.Context, query *gorm.DB, cond string, args ...interface{}) (*entity.CashierSession, error) {
	var session entity.CashierSession
	err := query.Scopes(TenantScope(ctx)).Where(cond, args...).Order("opened_at DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashierSessionRepository) Close(ctx context.Context, session *entity.CashierSession) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.CashierSession{}).
		Scopes(TenantScope(ctx)).
		Where("id = ? AND status = ?", session.ID, enum.CashierSessionOpen).
		Updates(map[string]interface{}{
			"status":          session.Status,
			"expected_amount": session.ExpectedAmount,
			"counted_amount":  session.CountedAmount,
			"difference":      session.Difference,
			"closed_at":       session.ClosedAt,
			"closing_notes":   session.ClosingNotes,
			"closed_by":       session.ClosedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *cashierSessionRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashierSession, int64, error) {
	var sessions []entity.CashierSession
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.CashierSession{}).Scopes(TenantScope(ctx))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
