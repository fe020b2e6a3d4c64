package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

func newCashierFixture() (context.Context, *CashierService, *fakeSessionRepo, *fakePaymentRepo) {
	sessions := newFakeSessionRepo()
	payments := newFakePaymentRepo()
	svc := NewCashierService(stubTransactor{}, sessions, payments, nil, zap.NewNop())
	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	return ctx, svc, sessions, payments
}

func TestCashierService_CloseReconciles(t *testing.T) {
	ctx, svc, sessions, payments := newCashierFixture()
	opened := time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return opened }

	session, err := svc.Open(ctx, &OpenSessionInput{OpeningAmount: dec("100")})
	require.NoError(t, err)

	for _, p := range []entity.Payment{
		{Method: enum.PaymentMethodCash, Amount: dec("50"), PaidAt: opened.Add(time.Hour)},
		{Method: enum.PaymentMethodCard, Amount: dec("30"), PaidAt: opened.Add(time.Hour)},
		{Method: enum.PaymentMethodCash, Amount: dec("70"), PaidAt: opened.Add(-time.Hour)},
	} {
		require.NoError(t, payments.Create(ctx, &p))
	}

	svc.now = func() time.Time { return opened.Add(10 * time.Hour) }
	closed, err := svc.Close(ctx, session.ID, &CloseSessionInput{CountedAmount: dec("150")})
	require.NoError(t, err)
	assert.Equal(t, enum.CashierSessionClosed, closed.Status)
	assert.Equal(t, "150.00", closed.ExpectedAmount.Decimal.StringFixed(2))
	assert.True(t, closed.Difference.Decimal.IsZero())

	stored := sessions.sessions[session.ID]
	assert.False(t, stored.IsOpen())
}

func TestCashierService_LifecycleErrors(t *testing.T) {
	ctx, svc, _, _ := newCashierFixture()

	_, err := svc.Open(ctx, &OpenSessionInput{OpeningAmount: dec("-1")})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	session, err := svc.Open(ctx, &OpenSessionInput{OpeningAmount: dec("20")})
	require.NoError(t, err)

	_, err = svc.Open(ctx, &OpenSessionInput{OpeningAmount: dec("20")})
	assert.ErrorIs(t, err, apperror.ErrSessionAlreadyOpen)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, session.ID, current.ID)

	_, err = svc.Close(ctx, uuid.New(), &CloseSessionInput{CountedAmount: dec("20")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Close(ctx, session.ID, &CloseSessionInput{CountedAmount: dec("20")})
	require.NoError(t, err)

	_, err = svc.Close(ctx, session.ID, &CloseSessionInput{CountedAmount: dec("25")})
	assert.ErrorIs(t, err, apperror.ErrAlreadyClosed)

	current, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}
