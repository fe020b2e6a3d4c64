package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/internal/testutil"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

func TestTenantScopeIsolatesRows(t *testing.T) {
	db := testutil.NewDB(t)
	ctxA, tenantA := testutil.NewTenant(t, db, "18")
	ctxB, _ := testutil.NewTenant(t, db, "18")
	products := repository.NewProductRepository(db)

	p := testutil.NewProduct(t, db, tenantA.ID, "10.00", "5", true)

	got, err := products.GetByID(ctxA, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = products.GetByID(ctxB, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "a context without tenant must match nothing")
}

func TestAtomicDecrementStock(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	products := repository.NewProductRepository(db)
	p := testutil.NewProduct(t, db, tenant.ID, "3.50", "5", true)

	ok, err := products.AtomicDecrementStock(ctx, p.ID, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = products.AtomicDecrementStock(ctx, p.ID, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(got.Stock), "stock = %s", got.Stock)
}

func TestNextReferenceSequence(t *testing.T) {
	db := testutil.NewDB(t)
	ctxA, _ := testutil.NewTenant(t, db, "18")
	ctxB, _ := testutil.NewTenant(t, db, "18")
	payments := repository.NewPaymentRepository(db)
	tx := repository.NewTransactor(db, 0)

	next := func(ctx context.Context, year int) int64 {
		t.Helper()
		var n int64
		require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			n, err = payments.NextReferenceSequence(ctx, year)
			return err
		}))
		return n
	}

	assert.Equal(t, int64(1), next(ctxA, 2025))
	assert.Equal(t, int64(2), next(ctxA, 2025))
	assert.Equal(t, int64(1), next(ctxA, 2026))
	assert.Equal(t, int64(1), next(ctxB, 2025))
	assert.Equal(t, int64(3), next(ctxA, 2025))

	_, err := payments.NextReferenceSequence(context.Background(), 2025)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestSumByMethodBetween(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	folios := repository.NewFolioRepository(db)
	payments := repository.NewPaymentRepository(db)

	folio := &entity.Folio{TenantID: tenant.ID, Status: enum.FolioStatusOpen}
	require.NoError(t, folios.Create(ctx, folio))

	base := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	add := func(method enum.PaymentMethod, amount string, at time.Time) {
		require.NoError(t, payments.Create(ctx, &entity.Payment{
			TenantID:        tenant.ID,
			FolioID:         folio.ID,
			Method:          method,
			Amount:          decimal.RequireFromString(amount),
			ReferenceNumber: uuid.NewString(),
			PaidAt:          at,
		}))
	}
	add(enum.PaymentMethodCash, "10.10", base)
	add(enum.PaymentMethodCash, "20.20", base.Add(time.Hour))
	add(enum.PaymentMethodCash, "99.00", base.Add(-time.Hour))
	add(enum.PaymentMethodCard, "50.00", base.Add(time.Hour))

	sum, err := payments.SumByMethodBetween(ctx, enum.PaymentMethodCash, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "30.30", sum.StringFixed(2))
}

func TestTransactorRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	products := repository.NewProductRepository(db)
	tx := repository.NewTransactor(db, time.Second)

	boom := errors.New("boom")
	product := &entity.Product{TenantID: tenant.ID, Name: "Towel", Price: decimal.NewFromInt(5), IsActive: true}

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, products.Create(ctx, product))
		// the inner call joins the outer transaction, so its failure undoes the insert
		return tx.WithinTransaction(ctx, func(context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactorTranslatesLockErrors(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, _ := testutil.NewTenant(t, db, "18")
	tx := repository.NewTransactor(db, 0)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"lock timeout", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}, apperror.ErrRetryable},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, apperror.ErrRetryable},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, apperror.ErrRetryable},
		{"application error", apperror.ErrOverpayment, apperror.ErrOverpayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tx.WithinTransaction(ctx, func(context.Context) error { return tt.err })
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVoucherSeriesUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	ctxOther, other := testutil.NewTenant(t, db, "18")
	series := repository.NewVoucherSeriesRepository(db)

	newSeries := func(tenantID uuid.UUID, code string, isDefault bool) *entity.VoucherSeries {
		return &entity.VoucherSeries{
			TenantID:      tenantID,
			VoucherType:   enum.VoucherTypeFactura,
			Series:        code,
			CurrentNumber: 1,
			IsActive:      true,
			IsDefault:     isDefault,
			PeriodKey:     "2025-03",
		}
	}

	require.NoError(t, series.Create(ctx, newSeries(tenant.ID, "F001", true)))
	assert.ErrorIs(t, series.Create(ctx, newSeries(tenant.ID, "F001", false)), apperror.ErrDuplicateSeries)
	require.NoError(t, series.Create(ctxOther, newSeries(other.ID, "F001", true)))

	second := newSeries(tenant.ID, "F002", false)
	require.NoError(t, series.Create(ctx, second))
	second.IsDefault = true
	err := series.UpdateFlags(ctx, second)
	assert.ErrorIs(t, err, apperror.ErrConflict, "only one default per voucher type")

	list, err := series.List(ctx, &domainRepo.VoucherSeriesFilterParams{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestResetPeriodSpansTenants(t *testing.T) {
	db := testutil.NewDB(t)
	ctxA, a := testutil.NewTenant(t, db, "18")
	ctxB, b := testutil.NewTenant(t, db, "18")
	series := repository.NewVoucherSeriesRepository(db)

	stale := &entity.VoucherSeries{TenantID: a.ID, VoucherType: enum.VoucherTypeBoleta, Series: "B001",
		CurrentNumber: 40, IsActive: true, IssuedInPeriod: 39, PeriodKey: "2025-02"}
	current := &entity.VoucherSeries{TenantID: b.ID, VoucherType: enum.VoucherTypeBoleta, Series: "B001",
		CurrentNumber: 7, IsActive: true, IssuedInPeriod: 6, PeriodKey: "2025-03"}
	require.NoError(t, series.Create(ctxA, stale))
	require.NoError(t, series.Create(ctxB, current))

	n, err := series.ResetPeriod(context.Background(), "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := series.GetByID(ctxA, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.IssuedInPeriod)
	assert.Equal(t, int64(40), got.CurrentNumber)
	assert.Equal(t, "2025-03", got.PeriodKey)

	got, err = series.GetByID(ctxB, current.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.IssuedInPeriod)
}

func TestCashierSessionOnePerTenant(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	sessions := repository.NewCashierSessionRepository(db)

	open := func() *entity.CashierSession {
		return &entity.CashierSession{
			TenantID:      tenant.ID,
			Status:        enum.CashierSessionOpen,
			OpeningAmount: decimal.NewFromInt(100),
			OpenedAt:      time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC),
		}
	}

	first := open()
	require.NoError(t, sessions.Create(ctx, first))
	assert.ErrorIs(t, sessions.Create(ctx, open()), apperror.ErrSessionAlreadyOpen)

	closedAt := time.Date(2025, 3, 5, 20, 0, 0, 0, time.UTC)
	first.Status = enum.CashierSessionClosed
	first.ClosedAt = &closedAt
	first.CountedAmount = decimal.NewNullDecimal(decimal.NewFromInt(100))

	ok, err := sessions.Close(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sessions.Close(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok, "a closed session cannot be closed again")

	require.NoError(t, sessions.Create(ctx, open()), "a new session may open once the previous one closed")
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	keys := repository.NewIdempotencyRepository(db)
	userID := uuid.New()

	got, err := keys.GetByKey(ctx, "missing", userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Now().UTC()
	for i, expires := range []time.Time{now.Add(-time.Minute), now.Add(time.Hour)} {
		require.NoError(t, keys.Create(ctx, &entity.IdempotencyKey{
			Key:          []string{"old", "fresh"}[i],
			TenantID:     tenant.ID,
			UserID:       userID,
			Endpoint:     "POST /api/v1/folios/payments/to-folio",
			ResponseCode: 201,
			ExpiresAt:    expires,
		}))
	}

	got, err = keys.GetByKey(ctx, "fresh", userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	n, err := keys.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = keys.GetByKey(ctx, "old", userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVoucherSeriesCreateSecondDefault(t *testing.T) {
	db := testutil.NewDB(t)
	ctx, tenant := testutil.NewTenant(t, db, "18")
	series := repository.NewVoucherSeriesRepository(db)
	tx := repository.NewTransactor(db, 0)

	first := &entity.VoucherSeries{TenantID: tenant.ID, VoucherType: enum.VoucherTypeFactura, Series: "F001",
		CurrentNumber: 1, IsActive: true, IsDefault: true, PeriodKey: "2025-03"}
	require.NoError(t, series.Create(ctx, first))

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		second := &entity.VoucherSeries{TenantID: tenant.ID, VoucherType: enum.VoucherTypeFactura, Series: "F009",
			CurrentNumber: 1, IsActive: true, IsDefault: true, PeriodKey: "2025-03"}
		err := series.Create(ctx, second)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.NotErrorIs(t, err, apperror.ErrDuplicateSeries)

		// the transaction stays usable after the rejected insert
		second.IsDefault = false
		return series.Create(ctx, second)
	})
	require.NoError(t, err)

	def, err := series.GetDefault(ctx, enum.VoucherTypeFactura)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, first.ID, def.ID)

	exists, err := series.Exists(ctx, enum.VoucherTypeFactura, "F009")
	require.NoError(t, err)
	assert.True(t, exists)
}
