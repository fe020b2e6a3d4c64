package database

import (
	"fmt"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// partialIndexes enforce the one-per-tenant rules that AutoMigrate cannot express.
// Both PostgreSQL and SQLite accept this syntax.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cashier_sessions_one_open
		ON cashier_sessions (tenant_id) WHERE status = 'OPEN'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_voucher_series_one_default
		ON tenant_voucher_series (tenant_id, voucher_type) WHERE is_default`,
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Tenant{},

		// Collaborators
		&entity.Product{},
		&entity.Reservation{},

		// Ledger
		&entity.Folio{},
		&entity.FolioCharge{},
		&entity.Payment{},
		&entity.PaymentCounter{},
		&entity.CashierSession{},
		&entity.VoucherSeries{},
		&entity.Invoice{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create partial index: %w", err)
		}
	}

	log.Info("database migrations completed")
	return nil
}
