// Package testutil provides shared fixtures for database-backed tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTenant creates a tenant with the given tax rate and returns a context scoped to it.
func NewTenant(t *testing.T, db *gorm.DB, taxRate string) (context.Context, *entity.Tenant) {
	t.Helper()

	settings := entity.DefaultTenantSettings()
	settings.TaxRate = decimal.RequireFromString(taxRate)
	tenant := &entity.Tenant{
		Name:     "Hotel " + uuid.NewString()[:8],
		Slug:     "hotel-" + uuid.NewString(),
		Settings: settings,
	}
	require.NoError(t, db.Create(tenant).Error)
	return infraRepo.WithTenant(context.Background(), tenant.ID), tenant
}

// NewProduct inserts an active product for the tenant
func NewProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, price, stock string, trackStock bool) *entity.Product {
	t.Helper()

	p := &entity.Product{
		TenantID:   tenantID,
		Name:       "Minibar water",
		Code:       "P-" + uuid.NewString()[:8],
		Price:      decimal.RequireFromString(price),
		Stock:      decimal.RequireFromString(stock),
		TrackStock: trackStock,
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// NewReservation inserts a reservation with the given status
func NewReservation(t *testing.T, db *gorm.DB, tenantID uuid.UUID, code string, status enum.ReservationStatus) *entity.Reservation {
	t.Helper()

	r := &entity.Reservation{
		TenantID:    tenantID,
		Code:        code,
		GuestName:   "Ana Torres",
		RoomNumber:  "204",
		Status:      status,
		TotalAmount: decimal.Zero,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}
