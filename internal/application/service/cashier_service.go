package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/observability/metrics"
	"github.com/sangkips/hotel-ledger-api/pkg/apperror"
	"github.com/sangkips/hotel-ledger-api/pkg/pagination"
)

// CashierService runs the open/close cycle of the front desk cash drawer
type CashierService struct {
	tx          repository.Transactor
	sessionRepo repository.CashierSessionRepository
	paymentRepo repository.PaymentRepository
	metrics     *metrics.LedgerMetrics
	log         *zap.Logger
	now         func() time.Time
}

// NewCashierService creates a new cashier service
func NewCashierService(
	tx repository.Transactor,
	sessionRepo repository.CashierSessionRepository,
	paymentRepo repository.PaymentRepository,
	m *metrics.LedgerMetrics,
	log *zap.Logger,
) *CashierService {
	return &CashierService{
		tx:          tx,
		sessionRepo: sessionRepo,
		paymentRepo: paymentRepo,
		metrics:     m,
		log:         log,
		now:         utcNow,
	}
}

// OpenSessionInput represents the open session input
type OpenSessionInput struct {
	OpeningAmount decimal.Decimal
	Notes         *string
	OpenedBy      *uuid.UUID
}

// CloseSessionInput represents the close session input
type CloseSessionInput struct {
	CountedAmount decimal.Decimal
	Notes         *string
	ClosedBy      *uuid.UUID
}

// Open starts a session. A tenant has at most one open session; the partial
// unique index on cashier_sessions backs the check below against races.
func (s *CashierService) Open(ctx context.Context, input *OpenSessionInput) (*entity.CashierSession, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.OpeningAmount.IsNegative() || !hasAtMostTwoDecimals(input.OpeningAmount) {
		return nil, apperror.NewBadRequestError("Opening amount must not be negative")
	}

	session := &entity.CashierSession{
		TenantID:      tenantID,
		Status:        enum.CashierSessionOpen,
		OpeningAmount: input.OpeningAmount,
		OpenedAt:      s.now(),
		OpeningNotes:  input.Notes,
		OpenedBy:      input.OpenedBy,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.sessionRepo.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.ErrSessionAlreadyOpen
		}
		return s.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("cashier session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("opening_amount", session.OpeningAmount.StringFixed(2)),
	)
	return session, nil
}

// Close reconciles the drawer: expected is the opening amount plus every cash
// payment taken since the session opened, difference is counted minus expected.
func (s *CashierService) Close(ctx context.Context, sessionID uuid.UUID, input *CloseSessionInput) (*entity.CashierSession, error) {
	if input.CountedAmount.IsNegative() || !hasAtMostTwoDecimals(input.CountedAmount) {
		return nil, apperror.NewBadRequestError("Counted amount must not be negative")
	}

	var session *entity.CashierSession
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.sessionRepo.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Cashier session")
		}
		if !session.IsOpen() {
			return apperror.ErrAlreadyClosed
		}

		closedAt := s.now()
		cash, err := s.paymentRepo.SumByMethodBetween(ctx, enum.PaymentMethodCash, session.OpenedAt, closedAt)
		if err != nil {
			return err
		}
		expected := session.OpeningAmount.Add(cash).Round(2)

		session.Status = enum.CashierSessionClosed
		session.ExpectedAmount = decimal.NewNullDecimal(expected)
		session.CountedAmount = decimal.NewNullDecimal(input.CountedAmount)
		session.Difference = decimal.NewNullDecimal(input.CountedAmount.Sub(expected).Round(2))
		session.ClosedAt = &closedAt
		session.ClosingNotes = input.Notes
		session.ClosedBy = input.ClosedBy

		closed, err := s.sessionRepo.Close(ctx, session)
		if err != nil {
			return err
		}
		if !closed {
			return apperror.ErrAlreadyClosed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	diff, _ := session.Difference.Decimal.Float64()
	s.metrics.CashierSessionClosed(diff)
	s.log.Info("cashier session closed",
		zap.String("session_id", session.ID.String()),
		zap.String("expected", session.ExpectedAmount.Decimal.StringFixed(2)),
		zap.String("counted", session.CountedAmount.Decimal.StringFixed(2)),
		zap.String("difference", session.Difference.Decimal.StringFixed(2)),
	)
	return session, nil
}

// Get returns one session of the tenant
func (s *CashierService) Get(ctx context.Context, sessionID uuid.UUID) (*entity.CashierSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cashier session")
	}
	return session, nil
}

// Current returns the open session, or nil when the drawer is closed
func (s *CashierService) Current(ctx context.Context) (*entity.CashierSession, error) {
	return s.sessionRepo.GetOpen(ctx)
}

// List returns sessions newest first
func (s *CashierService) List(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashierSession], error) {
	params.Validate()
	sessions, total, err := s.sessionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(sessions, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
