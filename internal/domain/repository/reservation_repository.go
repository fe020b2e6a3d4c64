package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
)

// ReservationRepository is the reservation collaborator of the ledger
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	GetByCode(ctx context.Context, code string) (*entity.Reservation, error)
	// AddToTotal atomically adds amount to the reservation's total
	AddToTotal(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}
