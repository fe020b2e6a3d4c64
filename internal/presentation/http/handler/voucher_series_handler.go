package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
	"github.com/sangkips/hotel-ledger-api/internal/domain/repository"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
)

// VoucherSeriesService is the numbering behaviour the handler needs
type VoucherSeriesService interface {
	CreateSeries(ctx context.Context, input *service.CreateSeriesInput) (*entity.VoucherSeries, error)
	List(ctx context.Context, params *repository.VoucherSeriesFilterParams) ([]entity.VoucherSeries, error)
	GetNextNumber(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherNumber, error)
	Deactivate(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherSeries, error)
	SetDefault(ctx context.Context, seriesID uuid.UUID) (*entity.VoucherSeries, error)
}

// VoucherSeriesHandler handles voucher series HTTP requests
type VoucherSeriesHandler struct {
	seriesService VoucherSeriesService
}

// NewVoucherSeriesHandler creates a new voucher series handler
func NewVoucherSeriesHandler(seriesService VoucherSeriesService) *VoucherSeriesHandler {
	return &VoucherSeriesHandler{seriesService: seriesService}
}

// Create handles registering a series
func (h *VoucherSeriesHandler) Create(c *gin.Context) {
	var req request.CreateVoucherSeriesRequest
	if !bindJSON(c, &req) {
		return
	}

	series, err := h.seriesService.CreateSeries(c.Request.Context(), &service.CreateSeriesInput{
		VoucherType:   enum.VoucherType(req.VoucherType),
		Series:        req.Series,
		StartNumber:   req.StartNumber,
		IsDefault:     req.IsDefault,
		Description:   req.Description,
		EmissionPoint: req.EmissionPoint,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher series created", series)
}

// List handles listing the tenant's series
func (h *VoucherSeriesHandler) List(c *gin.Context) {
	var filter request.VoucherSeriesFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.VoucherSeriesFilterParams{ActiveOnly: filter.ActiveOnly}
	if filter.VoucherType != "" {
		vt := enum.VoucherType(filter.VoucherType)
		params.VoucherType = &vt
	}

	series, err := h.seriesService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher series retrieved", series)
}

// NextNumber handles issuing the next number of a series
func (h *VoucherSeriesHandler) NextNumber(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	number, err := h.seriesService.GetNextNumber(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher number issued", number)
}

// Deactivate handles retiring a series
func (h *VoucherSeriesHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	series, err := h.seriesService.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher series deactivated", series)
}

// SetDefault handles making a series the default of its voucher type
func (h *VoucherSeriesHandler) SetDefault(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	series, err := h.seriesService.SetDefault(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default voucher series updated", series)
}
