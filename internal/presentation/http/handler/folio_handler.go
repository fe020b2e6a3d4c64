package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
)

// FolioService is the folio ledger behaviour the handler needs
type FolioService interface {
	OpenFolio(ctx context.Context, input *service.OpenFolioInput) (*entity.Folio, error)
	GetFolio(ctx context.Context, id uuid.UUID) (*entity.Folio, error)
	AddCharge(ctx context.Context, folioID uuid.UUID, input *service.AddChargeInput) (*entity.FolioCharge, error)
	AddPayment(ctx context.Context, folioID uuid.UUID, input *service.AddPaymentInput) (*entity.Payment, error)
}

// FolioHandler handles folio HTTP requests
type FolioHandler struct {
	folioService FolioService
}

// NewFolioHandler creates a new folio handler
func NewFolioHandler(folioService FolioService) *FolioHandler {
	return &FolioHandler{folioService: folioService}
}

// Open handles opening a folio
func (h *FolioHandler) Open(c *gin.Context) {
	var req request.OpenFolioRequest
	if !bindJSON(c, &req) {
		return
	}

	folio, err := h.folioService.OpenFolio(c.Request.Context(), &service.OpenFolioInput{
		ReservationCode: req.ReservationCode,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Folio opened", folio)
}

// Get handles retrieving a folio with its charges and payments
func (h *FolioHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	folio, err := h.folioService.GetFolio(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Folio retrieved", folio)
}

// AddCharge handles posting a charge to a folio
func (h *FolioHandler) AddCharge(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.AddChargeRequest
	if !bindJSON(c, &req) {
		return
	}

	charge, err := h.folioService.AddCharge(c.Request.Context(), id, &service.AddChargeInput{
		ChargeType:    enum.ChargeType(req.ChargeType),
		ProductID:     req.ProductPublicID,
		Description:   req.Description,
		Quantity:      *req.Quantity,
		UnitPrice:     *req.UnitPrice,
		IsInvoiceable: req.IsInvoiceable,
		CreatedBy:     actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Charge added", charge)
}

// PaymentToFolio handles applying a payment to a folio
func (h *FolioHandler) PaymentToFolio(c *gin.Context) {
	var req request.PaymentToFolioRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.folioService.AddPayment(c.Request.Context(), req.FolioPublicID, &service.AddPaymentInput{
		Method:           enum.PaymentMethod(req.PaymentMethod),
		Amount:           *req.Amount,
		ReferenceNumber:  req.ReferenceNumber,
		Notes:            req.Notes,
		AllowOverpayment: req.AllowOverpayment,
		CreatedBy:        actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment applied", payment)
}
