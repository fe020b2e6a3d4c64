package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/domain/tax"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

// FolioService keeps folio totals and balances. Every mutation locks the folio row
// and runs in one transaction, so balance always equals total minus payments.
type FolioService struct {
	tx           repository.Transactor
	folioRepo    repository.FolioRepository
	paymentRepo  repository.PaymentRepository
	productRepo  repository.ProductRepository
	reservations repository.ReservationRepository
	tenantRepo   repository.TenantRepository
	refPrefix    string
	metrics      *metrics.LedgerMetrics
	log          *zap.Logger
	now          func() time.Time
}

// NewFolioService creates a new folio service
func NewFolioService(
	tx repository.Transactor,
	folioRepo repository.FolioRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	reservations repository.ReservationRepository,
	tenantRepo repository.TenantRepository,
	paymentRefPrefix string,
	m *metrics.LedgerMetrics,
	log *zap.Logger,
) *FolioService {
	if paymentRefPrefix == "" {
		paymentRefPrefix = "PAY"
	}
	return &FolioService{
		tx:           tx,
		folioRepo:    folioRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		reservations: reservations,
		tenantRepo:   tenantRepo,
		refPrefix:    paymentRefPrefix,
		metrics:      m,
		log:          log,
		now:          utcNow,
	}
}

// OpenFolioInput represents the open folio input
type OpenFolioInput struct {
	ReservationCode string
	Notes           *string
}

// AddChargeInput represents one charge line. UnitPrice is tax inclusive.
type AddChargeInput struct {
	ChargeType    enum.ChargeType
	ProductID     *uuid.UUID
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	IsInvoiceable *bool
	CreatedBy     *uuid.UUID
}

// AddPaymentInput represents a payment against a folio
type AddPaymentInput struct {
	Method           enum.PaymentMethod
	Amount           decimal.Decimal
	ReferenceNumber  string
	Notes            *string
	AllowOverpayment bool
	CreatedBy        *uuid.UUID
}

// OpenFolio opens an empty folio, attached to a reservation when a code is given
func (s *FolioService) OpenFolio(ctx context.Context, input *OpenFolioInput) (*entity.Folio, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	var reservationID *uuid.UUID
	if code := strings.TrimSpace(input.ReservationCode); code != "" {
		reservation, err := s.reservations.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if reservation == nil {
			return nil, apperror.ErrReservationNotFound
		}
		reservationID = &reservation.ID
	}

	folio := newFolio(tenantID, reservationID, input.Notes)
	if err := s.folioRepo.Create(ctx, folio); err != nil {
		return nil, err
	}
	return folio, nil
}

func newFolio(tenantID uuid.UUID, reservationID *uuid.UUID, notes *string) *entity.Folio {
	return &entity.Folio{
		TenantID:      tenantID,
		ReservationID: reservationID,
		Status:        enum.FolioStatusOpen,
		Subtotal:      decimal.Zero,
		Tax:           decimal.Zero,
		Total:         decimal.Zero,
		Balance:       decimal.Zero,
		Notes:         notes,
	}
}

// GetFolio returns a folio with its charges and payments
func (s *FolioService) GetFolio(ctx context.Context, id uuid.UUID) (*entity.Folio, error) {
	folio, err := s.folioRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.NewNotFoundError("Folio")
	}
	return folio, nil
}

// AddCharge posts a charge to an open folio
func (s *FolioService) AddCharge(ctx context.Context, folioID uuid.UUID, input *AddChargeInput) (*entity.FolioCharge, error) {
	var charge *entity.FolioCharge
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		folio, err := s.lockOpenFolio(ctx, folioID)
		if err != nil {
			return err
		}
		charge, err = s.postCharge(ctx, folio, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return charge, nil
}

// AddPayment applies a payment to an open folio and closes the folio once settled
func (s *FolioService) AddPayment(ctx context.Context, folioID uuid.UUID, input *AddPaymentInput) (*entity.Payment, error) {
	var (
		payment *entity.Payment
		closed  bool
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		folio, err := s.lockOpenFolio(ctx, folioID)
		if err != nil {
			return err
		}
		payment, err = s.applyPayment(ctx, folio, input)
		closed = !folio.IsOpen()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.recordPayment(payment, closed)
	return payment, nil
}

func (s *FolioService) lockOpenFolio(ctx context.Context, folioID uuid.UUID) (*entity.Folio, error) {
	folio, err := s.folioRepo.GetByIDForUpdate(ctx, folioID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.NewNotFoundError("Folio")
	}
	if !folio.IsOpen() {
		return nil, apperror.ErrFolioNotOpen
	}
	return folio, nil
}

// postCharge must run inside a transaction holding the folio lock
func (s *FolioService) postCharge(ctx context.Context, folio *entity.Folio, input *AddChargeInput) (*entity.FolioCharge, error) {
	if !folio.IsOpen() {
		return nil, apperror.ErrFolioNotOpen
	}
	if err := validateCharge(input); err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		if err := s.takeStock(ctx, *input.ProductID, input.Quantity); err != nil {
			return nil, err
		}
	}

	rate, err := tenantTaxRate(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}
	lineTotal := input.Quantity.Mul(input.UnitPrice).Round(tax.Scale)
	parts, err := tax.Decompose(lineTotal, rate)
	if err != nil {
		return nil, err
	}

	invoiceable := true
	if input.IsInvoiceable != nil {
		invoiceable = *input.IsInvoiceable
	}
	charge := &entity.FolioCharge{
		TenantID:      folio.TenantID,
		FolioID:       folio.ID,
		ChargeType:    input.ChargeType,
		ProductID:     input.ProductID,
		Description:   strings.TrimSpace(input.Description),
		Quantity:      input.Quantity,
		UnitPrice:     input.UnitPrice,
		Subtotal:      parts.Subtotal,
		Tax:           parts.Tax,
		Total:         parts.Total,
		IsInvoiceable: invoiceable,
		CreatedBy:     input.CreatedBy,
	}
	if err := s.folioRepo.CreateCharge(ctx, charge); err != nil {
		return nil, err
	}

	folio.Subtotal = folio.Subtotal.Add(parts.Subtotal)
	folio.Tax = folio.Tax.Add(parts.Tax)
	folio.Total = folio.Total.Add(parts.Total)
	folio.Balance = folio.Balance.Add(parts.Total)
	folio.Charges = append(folio.Charges, *charge)
	if err := s.folioRepo.UpdateTotals(ctx, folio); err != nil {
		return nil, err
	}
	return charge, nil
}

// takeStock resolves the product and decrements its stock when it is tracked
func (s *FolioService) takeStock(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return apperror.ErrProductNotFound
	}
	if !product.TrackStock {
		return nil
	}
	ok, err := s.productRepo.AtomicDecrementStock(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrInsufficientStock.WithMessage(fmt.Sprintf("Insufficient stock for %s", product.Name))
	}
	return nil
}

// applyPayment must run inside a transaction holding the folio lock
func (s *FolioService) applyPayment(ctx context.Context, folio *entity.Folio, input *AddPaymentInput) (*entity.Payment, error) {
	if !folio.IsOpen() {
		return nil, apperror.ErrFolioNotOpen
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}
	if !input.Amount.IsPositive() || !hasAtMostTwoDecimals(input.Amount) {
		return nil, apperror.NewBadRequestError("Amount must be positive with at most two decimals")
	}
	if input.Amount.GreaterThan(folio.Balance) && !input.AllowOverpayment {
		return nil, apperror.ErrOverpayment
	}

	now := s.now()
	reference := strings.TrimSpace(input.ReferenceNumber)
	if reference == "" {
		seq, err := s.paymentRepo.NextReferenceSequence(ctx, now.Year())
		if err != nil {
			return nil, err
		}
		reference = fmt.Sprintf("%s-%d-%06d", s.refPrefix, now.Year(), seq)
	}

	payment := &entity.Payment{
		TenantID:        folio.TenantID,
		FolioID:         folio.ID,
		Method:          input.Method,
		Amount:          input.Amount,
		ReferenceNumber: reference,
		PaidAt:          now,
		Notes:           input.Notes,
		CreatedBy:       input.CreatedBy,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	folio.Balance = folio.Balance.Sub(input.Amount)
	if folio.IsSettled() {
		folio.Status = enum.FolioStatusClosed
		folio.ClosedAt = &now
	}
	folio.Payments = append(folio.Payments, *payment)
	if err := s.folioRepo.UpdateTotals(ctx, folio); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *FolioService) recordPayment(payment *entity.Payment, folioClosed bool) {
	amount, _ := payment.Amount.Float64()
	s.metrics.PaymentApplied(string(payment.Method), amount)
	if folioClosed {
		s.metrics.FolioClosed()
		s.log.Info("folio closed",
			zap.String("folio_id", payment.FolioID.String()),
			zap.String("last_payment", payment.ReferenceNumber),
		)
	}
}

func validateCharge(input *AddChargeInput) error {
	var fieldErrors []apperror.FieldError
	if !input.ChargeType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "charge_type", Message: "must be ROOM, PRODUCT, SERVICE or OTHER"})
	}
	if strings.TrimSpace(input.Description) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "is required"})
	}
	if !input.Quantity.IsPositive() || !hasAtMostTwoDecimals(input.Quantity) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must be positive with at most two decimals"})
	}
	if !input.UnitPrice.IsPositive() || !hasAtMostTwoDecimals(input.UnitPrice) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "must be positive with at most two decimals"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
