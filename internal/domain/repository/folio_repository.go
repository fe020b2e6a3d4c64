package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
)

// FolioRepository defines folio, charge and payment persistence
type FolioRepository interface {
	Create(ctx context.Context, folio *entity.Folio) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Folio, error)
	// GetByIDForUpdate loads the folio and holds its row lock until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Folio, error)
	// GetWithDetails loads the folio with its charges and payments
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Folio, error)
	// GetLatestByReservation returns the most recently opened folio of a reservation
	GetLatestByReservation(ctx context.Context, reservationID uuid.UUID) (*entity.Folio, error)
	// UpdateTotals persists running totals, balance, status and closed_at
	UpdateTotals(ctx context.Context, folio *entity.Folio) error

	CreateCharge(ctx context.Context, charge *entity.FolioCharge) error
	ListCharges(ctx context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error)
	// ListUninvoicedCharges returns invoiceable charges not yet attached to an invoice
	ListUninvoicedCharges(ctx context.Context, folioID uuid.UUID) ([]entity.FolioCharge, error)
	// MarkChargesInvoiced attaches charges to an invoice; already invoiced charges are left alone
	MarkChargesInvoiced(ctx context.Context, chargeIDs []uuid.UUID, invoiceID uuid.UUID) (int64, error)
}
