package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

func requireTenant(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return uuid.Nil, apperror.NewBadRequestError("Tenant context required")
	}
	return tenantID, nil
}

// tenantTaxRate returns the IGV percentage configured for the tenant in ctx
func tenantTaxRate(ctx context.Context, tenants repository.TenantRepository) (decimal.Decimal, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	tenant, err := tenants.GetByID(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	if tenant == nil {
		return decimal.Zero, apperror.NewNotFoundError("Tenant")
	}
	return tenant.Settings.TaxRate, nil
}

// hasAtMostTwoDecimals rejects amounts finer than a cent
func hasAtMostTwoDecimals(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
