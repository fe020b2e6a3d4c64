package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-ledger-api/pkg/pagination"
)

// CashierService is the cashier session behaviour the handler needs
type CashierService interface {
	Open(ctx context.Context, input *service.OpenSessionInput) (*entity.CashierSession, error)
	Close(ctx context.Context, sessionID uuid.UUID, input *service.CloseSessionInput) (*entity.CashierSession, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*entity.CashierSession, error)
	Current(ctx context.Context) (*entity.CashierSession, error)
	List(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashierSession], error)
}

// CashierHandler handles cash drawer HTTP requests
type CashierHandler struct {
	cashierService CashierService
}

// NewCashierHandler creates a new cashier handler
func NewCashierHandler(cashierService CashierService) *CashierHandler {
	return &CashierHandler{cashierService: cashierService}
}

// Open handles opening a cashier session
func (h *CashierHandler) Open(c *gin.Context) {
	var req request.OpenCashierRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.cashierService.Open(c.Request.Context(), &service.OpenSessionInput{
		OpeningAmount: *req.OpeningAmount,
		Notes:         req.OpeningNotes,
		OpenedBy:      actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cashier session opened", session)
}

// Close handles closing and reconciling a cashier session
func (h *CashierHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.CloseCashierRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.cashierService.Close(c.Request.Context(), id, &service.CloseSessionInput{
		CountedAmount: *req.CountedAmount,
		Notes:         req.ClosingNotes,
		ClosedBy:      actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashier session closed", session)
}

// Get handles retrieving a cashier session
func (h *CashierHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.cashierService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cashier session retrieved", session)
}

// Current handles retrieving the open session, if any
func (h *CashierHandler) Current(c *gin.Context) {
	session, err := h.cashierService.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.NotFound(c, "No open cashier session")
		return
	}

	response.OK(c, "Cashier session retrieved", session)
}

// List handles listing cashier sessions
func (h *CashierHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.cashierService.List(c.Request.Context(), &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Cashier sessions retrieved", result)
}
