package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) ListByFolio(ctx context.Context, folioID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("folio_id = ?", folioID).
		Order("paid_at ASC").
		Find(&payments).Error
	return payments, err
}

// SumByMethodBetween adds amounts in Go so the result keeps exact decimal precision on every driver
func (r *paymentRepository) SumByMethodBetween(ctx context.Context, method enum.PaymentMethod, from, to time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := dbFrom(ctx, r.db).Model(&entity.Payment{}).
		Scopes(TenantScope(ctx)).
		Where("method = ? AND paid_at >= ? AND paid_at <= ?", method, from, to).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum, nil
}

func (r *paymentRepository) NextReferenceSequence(ctx context.Context, year int) (int64, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return 0, apperror.ErrUnauthorized
	}
	db := dbFrom(ctx, r.db)

	seed := entity.PaymentCounter{TenantID: tenantID, Year: year}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	var counter entity.PaymentCounter
	if err := forUpdate(db).
		Where("tenant_id = ? AND year = ?", tenantID, year).
		First(&counter).Error; err != nil {
		return 0, err
	}

	next := counter.LastValue + 1
	err := db.Model(&entity.PaymentCounter{}).
		Where("tenant_id = ? AND year = ?", tenantID, year).
		Updates(map[string]interface{}{"last_value": next, "updated_at": time.Now().UTC()}).Error
	return next, err
}
