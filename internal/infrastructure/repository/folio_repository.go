package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type folioRepository struct {
	db *gorm.DB
}

// NewFolioRepository creates a new folio repository
func NewFolioRepository(db *gorm.DB) domainRepo.FolioRepository {
	return &folioRepository{db: db}
}

func (r *folioRepository) Create(ctx context.Context, folio *entity.Folio) error {
	return dbFrom(ctx, r.db).Omit("Charges", "Payments").Create(folio).Error
}

func (r *folioRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	return r.first(ctx, dbFrom(ctx, r.db), "id = ?", id)
}

func (r *folioRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	return r.first(ctx, forUpdate(dbFrom(ctx, r.db)), "id = ?", id)
}

func (r *folioRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	query := dbFrom(ctx, r.db).
		Preload("Charges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") })
	return r.first(ctx, query, "id = ?", id)
}

func (r *folioRepository) GetLatestByReservation(ctx context.Context, reservationID uuid.UUID) (*entity.Folio, error) {
	var folio entity.Folio
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		First(&folio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &folio, err
}

func (r *folioRepository) first(ctx context.Context, query *gorm.DB, cond string, args ...interface{}) (*entity.Folio, error) {
	var folio entity.Folio
	err := query.Scopes(TenantScope(ctx)).Where(cond, args...).First(&folio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &folio, err
}

func (r *folioRepository) UpdateTotals(ctx context.Context, folio *entity.Folio) error {
	return dbFrom(ctx, r.db).Model(&entity.Folio{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", folio.ID).
		Updates(map[string]interface{}{
			"subtotal":  folio.Subtotal,
			"tax":       folio.Tax,
			"total":     folio.Total,
			"balance":   folio.Balance,
			"status":    folio.Status,
			"closed_at": folio.ClosedAt,
		}).Error
}

func (r *folioRepository) CreateCharge(ctx context.Context, charge *entity.FolioCharge) error {
	return dbFrom(ctx, r.db).Create(charge).Error
}

func (r *folioRepository) ListCharges(ctx context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error) {
	var charges []entity.FolioCharge
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("folio_id = ?", folioID).
		Order("created_at ASC").
		Find(&charges).Error
	return charges, err
}

func (r *folioRepository) ListUninvoicedCharges(ctx context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error) {
	var charges []entity.FolioCharge
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("folio_id = ? AND is_invoiceable = ? AND invoice_id IS NULL", folioID, true).
		Order("created_at ASC").
		Find(&charges).Error
	return charges, err
}

func (r *folioRepository) MarkChargesInvoiced(ctx context.Context, chargeIDs []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	if len(chargeIDs) == 0 {
		return 0, nil
	}
	result := dbFrom(ctx, r.db).Model(&entity.FolioCharge{}).
		Scopes(TenantScope(ctx)).
		Where("id IN ? AND invoice_id IS NULL", chargeIDs).
		Update("invoice_id", invoiceID)
	return result.RowsAffected, result.Error
}
