package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
)

// InvoiceRepository defines invoice persistence
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// UpdateSubmission stores the fiscal gateway outcome
	UpdateSubmission(ctx context.Context, invoice *entity.Invoice) error
}
