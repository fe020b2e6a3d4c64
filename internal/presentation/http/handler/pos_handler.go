package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
)

// PosService is the point of sale behaviour the handler needs
type PosService interface {
	CreateWalkInSale(ctx context.Context, input *service.WalkInSaleInput) (*service.WalkInSaleResult, error)
	AddChargeToRoom(ctx context.Context, input *service.RoomChargeInput) (*service.RoomChargeResult, error)
}

// PosHandler handles point of sale HTTP requests
type PosHandler struct {
	posService PosService
}

// NewPosHandler creates a new point of sale handler
func NewPosHandler(posService PosService) *PosHandler {
	return &PosHandler{posService: posService}
}

// WalkInSale handles a counter sale paid on the spot
func (h *PosHandler) WalkInSale(c *gin.Context) {
	var req request.WalkInSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.posService.CreateWalkInSale(c.Request.Context(), &service.WalkInSaleInput{
		ChargeType:    enum.ChargeType(req.ChargeType),
		ProductID:     req.ProductPublicID,
		Description:   req.Description,
		Quantity:      *req.Quantity,
		UnitPrice:     *req.UnitPrice,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		CreatedBy:     actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Walk-in sale recorded", result)
}

// RoomCharge handles posting a charge to a checked-in guest's folio
func (h *PosHandler) RoomCharge(c *gin.Context) {
	var req request.RoomChargeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.posService.AddChargeToRoom(c.Request.Context(), &service.RoomChargeInput{
		ReservationCode: req.ReservationCode,
		ChargeType:      enum.ChargeType(req.ChargeType),
		ProductID:       req.ProductPublicID,
		Description:     req.Description,
		Quantity:        *req.Quantity,
		UnitPrice:       *req.UnitPrice,
		CreatedBy:       actor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Charge posted to room", result)
}
