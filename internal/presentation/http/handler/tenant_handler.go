package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/middleware"
)

// TenantService is the tenant settings behaviour the handler needs
type TenantService interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	UpdateTaxRate(ctx context.Context, rate decimal.Decimal) (*entity.Tenant, error)
}

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	tenantService TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent handles getting the caller's tenant
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenant, err := h.tenantService.GetTenant(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", tenant)
}

// UpdateTaxRate handles changing the tenant's tax percentage
func (h *TenantHandler) UpdateTaxRate(c *gin.Context) {
	var req request.UpdateTaxRateRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateTaxRate(c.Request.Context(), *req.TaxRate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tax rate updated", tenant)
}
