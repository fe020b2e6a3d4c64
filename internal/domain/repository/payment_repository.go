package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// PaymentRepository defines payment persistence
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByFolio(ctx context.Context, folioID uuid.UUID) ([]entity.Payment, error)
	// SumByMethodBetween totals payments of one method with paid_at in [from, to]
	SumByMethodBetween(ctx context.Context, method enum.PaymentMethod, from, to time.Time) (decimal.Decimal, error)
	// NextReferenceSequence increments and returns the tenant's payment counter for year.
	// Must be called inside a transaction; the counter row stays locked until it ends.
	NextReferenceSequence(ctx context.Context, year int) (int64, error)
}
