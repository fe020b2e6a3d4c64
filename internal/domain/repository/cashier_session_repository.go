package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/pkg/pagination"
)

// CashierSessionRepository defines cashier session persistence
type CashierSessionRepository interface {
	Create(ctx context.Context, session *entity.CashierSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.CashierSession, error)
	// GetOpen returns the tenant's open session, or nil
	GetOpen(ctx context.Context) (*entity.CashierSession, error)
	// Close persists the closing fields of a session that is still OPEN.
	// Returns false if the session was closed concurrently.
	Close(ctx context.Context, session *entity.CashierSession) (bool, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashierSession, int64, error)
}
