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

// InvoiceService is the invoicing behaviour the handler needs
type InvoiceService interface {
	IssueForFolio(ctx context.Context, folioID uuid.UUID, input *service.IssueInvoiceInput) (*entity.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
}

// InvoiceHandler handles fiscal voucher HTTP requests
type InvoiceHandler struct {
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Issue handles issuing an invoice for a folio's uninvoiced charges
func (h *InvoiceHandler) Issue(c *gin.Context) {
	folioID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req request.IssueInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.IssueForFolio(c.Request.Context(), folioID, &service.IssueInvoiceInput{
		VoucherType:       enum.VoucherType(req.VoucherType),
		CustomerDocType:   req.CustomerDocType,
		CustomerDocNumber: req.CustomerDocNumber,
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		CustomerEmail:     req.CustomerEmail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice issued", invoice)
}

// Get handles retrieving an invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", invoice)
}
