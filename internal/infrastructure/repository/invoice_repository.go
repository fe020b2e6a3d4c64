package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Omit("Charges").Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).Scopes(TenantScope(ctx)).
		Preload("Charges").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) UpdateSubmission(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(TenantScope(ctx)).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"status":               invoice.Status,
			"pdf_url":              invoice.PDFURL,
			"xml_url":              invoice.XMLURL,
			"hash":                 invoice.Hash,
			"response_code":        invoice.ResponseCode,
			"response_description": invoice.ResponseDescription,
			"fiscal_response":      invoice.FiscalResponse,
			"submitted_at":         invoice.SubmittedAt,
		}).Error
}
