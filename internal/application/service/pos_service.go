package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
)

// PosService runs point of sale flows. Each flow is one transaction: a failure
// at any step leaves folios, charges, payments, stock and reservations untouched.
type PosService struct {
	tx           repository.Transactor
	folios       *FolioService
	folioRepo    repository.FolioRepository
	reservations repository.ReservationRepository
	log          *zap.Logger
}

// NewPosService creates a new point of sale service
func NewPosService(
	tx repository.Transactor,
	folios *FolioService,
	folioRepo repository.FolioRepository,
	reservations repository.ReservationRepository,
	log *zap.Logger,
) *PosService {
	return &PosService{
		tx:           tx,
		folios:       folios,
		folioRepo:    folioRepo,
		reservations: reservations,
		log:          log,
	}
}

// WalkInSaleInput represents a counter sale paid on the spot
type WalkInSaleInput struct {
	ChargeType    enum.ChargeType
	ProductID     *uuid.UUID
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	PaymentMethod enum.PaymentMethod
	Notes         *string
	CreatedBy     *uuid.UUID
}

// WalkInSaleResult is what a walk-in sale produced
type WalkInSaleResult struct {
	Folio   *entity.Folio       `json:"folio"`
	Charge  *entity.FolioCharge `json:"charge"`
	Payment *entity.Payment     `json:"payment"`
}

// RoomChargeInput represents a charge posted to an in-house guest's folio
type RoomChargeInput struct {
	ReservationCode string
	ChargeType      enum.ChargeType
	ProductID       *uuid.UUID
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	CreatedBy       *uuid.UUID
}

// RoomChargeResult is what a room charge produced
type RoomChargeResult struct {
	Folio       *entity.Folio       `json:"folio"`
	Charge      *entity.FolioCharge `json:"charge"`
	Reservation *entity.Reservation `json:"reservation"`
}

// CreateWalkInSale opens a folio without reservation, posts one charge, pays it
// in full and so closes the folio.
func (s *PosService) CreateWalkInSale(ctx context.Context, input *WalkInSaleInput) (*WalkInSaleResult, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	result := &WalkInSaleResult{}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		folio := newFolio(tenantID, nil, input.Notes)
		if err := s.folioRepo.Create(ctx, folio); err != nil {
			return err
		}

		charge, err := s.folios.postCharge(ctx, folio, &AddChargeInput{
			ChargeType:  input.ChargeType,
			ProductID:   input.ProductID,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			CreatedBy:   input.CreatedBy,
		})
		if err != nil {
			return err
		}

		payment, err := s.folios.applyPayment(ctx, folio, &AddPaymentInput{
			Method:    input.PaymentMethod,
			Amount:    charge.Total,
			Notes:     input.Notes,
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}

		result.Folio, result.Charge, result.Payment = folio, charge, payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.folios.recordPayment(result.Payment, !result.Folio.IsOpen())
	s.log.Info("walk-in sale recorded",
		zap.String("folio_id", result.Folio.ID.String()),
		zap.String("total", result.Charge.Total.StringFixed(2)),
		zap.String("method", string(result.Payment.Method)),
	)
	return result, nil
}

// AddChargeToRoom posts a charge to the latest folio of a checked-in reservation
// and adds it to the reservation total.
func (s *PosService) AddChargeToRoom(ctx context.Context, input *RoomChargeInput) (*RoomChargeResult, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}

	result := &RoomChargeResult{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reservation, err := s.reservations.GetByCode(ctx, input.ReservationCode)
		if err != nil {
			return err
		}
		if reservation == nil {
			return apperror.ErrReservationNotFound
		}
		if !reservation.IsCheckedIn() {
			return apperror.ErrGuestNotCheckedIn
		}

		latest, err := s.folioRepo.GetLatestByReservation(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if latest == nil {
			return apperror.ErrNoOpenFolio
		}
		folio, err := s.folios.lockOpenFolio(ctx, latest.ID)
		if err != nil {
			return err
		}

		charge, err := s.folios.postCharge(ctx, folio, &AddChargeInput{
			ChargeType:  input.ChargeType,
			ProductID:   input.ProductID,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			CreatedBy:   input.CreatedBy,
		})
		if err != nil {
			return err
		}

		if err := s.reservations.AddToTotal(ctx, reservation.ID, charge.Total); err != nil {
			return err
		}
		reservation.TotalAmount = reservation.TotalAmount.Add(charge.Total)

		result.Folio, result.Charge, result.Reservation = folio, charge, reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("room charge posted",
		zap.String("reservation", result.Reservation.Code),
		zap.String("folio_id", result.Folio.ID.String()),
		zap.String("total", result.Charge.Total.StringFixed(2)),
	)
	return result, nil
}
