package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) domainRepo.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return dbFrom(ctx, r.db).Create(reservation).Error
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).First(&reservation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) GetByCode(ctx context.Context, code string) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).First(&reservation, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reservation, err
}

func (r *reservationRepository) AddToTotal(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := dbFrom(ctx, r.db).Model(&entity.Reservation{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", id).
		Update("total_amount", gorm.Expr("total_amount + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
