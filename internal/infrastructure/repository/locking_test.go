package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
)

// dryRunPostgres builds statements with the postgres dialector without a server;
// every statement is captured by the gorm logger instead of being executed.
func dryRunPostgres(t *testing.T) (*gorm.DB, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=ledger dbname=ledger sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               database.NewGormLogger(zap.New(core), logger.Info, 0),
	})
	require.NoError(t, err)
	return db, logs
}

func statements(logs *observer.ObservedLogs) []string {
	var out []string
	for _, entry := range logs.TakeAll() {
		if sql, ok := entry.ContextMap()["sql"].(string); ok {
			out = append(out, sql)
		}
	}
	return out
}

func TestLockingQueriesUseForUpdate(t *testing.T) {
	db, logs := dryRunPostgres(t)
	ctx := repository.WithTenant(context.Background(), uuid.New())

	tests := []struct {
		name  string
		table string
		run   func() error
	}{
		{"voucher series", "tenant_voucher_series", func() error {
			_, err := repository.NewVoucherSeriesRepository(db).GetByIDForUpdate(ctx, uuid.New())
			return err
		}},
		{"folio", "folios", func() error {
			_, err := repository.NewFolioRepository(db).GetByIDForUpdate(ctx, uuid.New())
			return err
		}},
		{"cashier session", "cashier_sessions", func() error {
			_, err := repository.NewCashierSessionRepository(db).GetByIDForUpdate(ctx, uuid.New())
			return err
		}},
		{"payment counter", "payment_reference_counters", func() error {
			_, err := repository.NewPaymentRepository(db).NextReferenceSequence(ctx, 2025)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.run())

			var locked []string
			for _, sql := range statements(logs) {
				if strings.HasPrefix(sql, "SELECT") && strings.Contains(sql, `FROM "`+tt.table+`"`) {
					locked = append(locked, sql)
				}
			}
			require.Len(t, locked, 1)
			assert.True(t, strings.HasSuffix(locked[0], "FOR UPDATE"), locked[0])
			assert.Contains(t, locked[0], "tenant_id")
		})
	}
}

func TestPlainReadsDoNotLock(t *testing.T) {
	db, logs := dryRunPostgres(t)
	ctx := repository.WithTenant(context.Background(), uuid.New())

	_, err := repository.NewVoucherSeriesRepository(db).GetByID(ctx, uuid.New())
	require.NoError(t, err)
	_, err = repository.NewFolioRepository(db).GetByID(ctx, uuid.New())
	require.NoError(t, err)

	sqls := statements(logs)
	require.Len(t, sqls, 2)
	for _, sql := range sqls {
		assert.NotContains(t, sql, "FOR UPDATE")
	}
}
