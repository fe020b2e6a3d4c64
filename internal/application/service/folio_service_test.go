package service

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func serviceCharge(qty, price string) *AddChargeInput {
	return &AddChargeInput{
		ChargeType:  enum.ChargeTypeService,
		Description: "Laundry",
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	}
}

func TestFolioService_OpenFolio(t *testing.T) {
	f := newLedgerFixture("18")

	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)
	assert.Equal(t, enum.FolioStatusOpen, folio.Status)
	assert.Nil(t, folio.ReservationID)
	assert.True(t, folio.Balance.IsZero())
	assert.Equal(t, f.tenant.ID, folio.TenantID)

	_, err = f.svc.OpenFolio(f.ctx, &OpenFolioInput{ReservationCode: "NOPE"})
	assert.ErrorIs(t, err, apperror.ErrReservationNotFound)
}

func TestFolioService_AddChargeDecomposesTax(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)

	charge, err := f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("2", "25"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", charge.Total.StringFixed(2))
	assert.Equal(t, "42.37", charge.Subtotal.StringFixed(2))
	assert.Equal(t, "7.63", charge.Tax.StringFixed(2))
	assert.True(t, charge.IsInvoiceable)

	stored, err := f.svc.GetFolio(f.ctx, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", stored.Total.StringFixed(2))
	assert.Equal(t, "50.00", stored.Balance.StringFixed(2))
	assert.True(t, stored.Subtotal.Add(stored.Tax).Equal(stored.Total))
}

func TestFolioService_AddChargeValidation(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)

	_, err = f.svc.AddCharge(f.ctx, folio.ID, &AddChargeInput{
		ChargeType: "MINIBAR",
		Quantity:   dec("0"),
		UnitPrice:  dec("1.005"),
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.ReasonValidation, appErr.Reason)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Len(t, appErr.Errors, 4)
}

func TestFolioService_BalanceInvariant(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)

	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("1", "120"))
	require.NoError(t, err)
	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodCash, Amount: dec("40")})
	require.NoError(t, err)
	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("3", "7.50"))
	require.NoError(t, err)
	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodCard, Amount: dec("10.25")})
	require.NoError(t, err)

	stored, err := f.svc.GetFolio(f.ctx, folio.ID)
	require.NoError(t, err)
	payments, err := f.payments.ListByFolio(f.ctx, folio.ID)
	require.NoError(t, err)

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	assert.Equal(t, "142.50", stored.Total.StringFixed(2))
	assert.True(t, stored.Balance.Equal(stored.Total.Sub(paid)))
	assert.Equal(t, "92.25", stored.Balance.StringFixed(2))
	assert.Equal(t, enum.FolioStatusOpen, stored.Status)
}

func TestFolioService_PaymentClosesSettledFolio(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)
	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("1", "59"))
	require.NoError(t, err)

	payment, err := f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodYape, Amount: dec("59")})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2025-000001", payment.ReferenceNumber)

	stored, err := f.svc.GetFolio(f.ctx, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.FolioStatusClosed, stored.Status)
	require.NotNil(t, stored.ClosedAt)

	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("1", "5"))
	assert.ErrorIs(t, err, apperror.ErrFolioNotOpen)
	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodCash, Amount: dec("1")})
	assert.ErrorIs(t, err, apperror.ErrFolioNotOpen)
}

func TestFolioService_Overpayment(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)
	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("1", "30"))
	require.NoError(t, err)

	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodCash, Amount: dec("50")})
	assert.ErrorIs(t, err, apperror.ErrOverpayment)

	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{
		Method:           enum.PaymentMethodCash,
		Amount:           dec("50"),
		ReferenceNumber:  "REC-77",
		AllowOverpayment: true,
	})
	require.NoError(t, err)

	stored, err := f.svc.GetFolio(f.ctx, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, "-20.00", stored.Balance.StringFixed(2))
	assert.Equal(t, enum.FolioStatusClosed, stored.Status)

	payments, _ := f.payments.ListByFolio(f.ctx, folio.ID)
	require.Len(t, payments, 1)
	assert.Equal(t, "REC-77", payments[0].ReferenceNumber)
}

func TestFolioService_ResidualCentClosesFolio(t *testing.T) {
	f := newLedgerFixture("18")
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)
	_, err = f.svc.AddCharge(f.ctx, folio.ID, serviceCharge("1", "10.01"))
	require.NoError(t, err)

	_, err = f.svc.AddPayment(f.ctx, folio.ID, &AddPaymentInput{Method: enum.PaymentMethodCash, Amount: dec("10")})
	require.NoError(t, err)

	stored, err := f.svc.GetFolio(f.ctx, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.FolioStatusClosed, stored.Status)
	assert.Equal(t, "0.01", stored.Balance.StringFixed(2))
}

func TestFolioService_ProductChargeTakesStock(t *testing.T) {
	f := newLedgerFixture("18")
	product := &entity.Product{TenantID: f.tenant.ID, Name: "Water", Price: dec("4"), Stock: dec("3"), TrackStock: true, IsActive: true}
	require.NoError(t, f.products.Create(f.ctx, product))
	folio, err := f.svc.OpenFolio(f.ctx, &OpenFolioInput{})
	require.NoError(t, err)

	in := &AddChargeInput{
		ChargeType:  enum.ChargeTypeProduct,
		ProductID:   &product.ID,
		Description: "Water",
		Quantity:    dec("2"),
		UnitPrice:   dec("4"),
	}
	_, err = f.svc.AddCharge(f.ctx, folio.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "1", f.products.products[product.ID].Stock.String())

	_, err = f.svc.AddCharge(f.ctx, folio.ID, in)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
}

func TestFolioService_RequiresTenant(t *testing.T) {
	f := newLedgerFixture("18")
	_, err := f.svc.OpenFolio(t.Context(), &OpenFolioInput{})
	require.Error(t, err)
	assert.Equal(t, apperror.ReasonBadRequest, apperror.GetAppError(err).Reason)
}
