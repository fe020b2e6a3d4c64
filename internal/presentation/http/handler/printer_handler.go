package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-ledger-api/internal/application/service"
	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
)

// PrinterService is the receipt printing behaviour the handler needs
type PrinterService interface {
	GetStatus() *service.PrinterStatus
	PrintFolioReceipt(ctx context.Context, folioID uuid.UUID) (*entity.Receipt, error)
	PrintCashierClose(ctx context.Context, sessionID uuid.UUID) (*entity.Receipt, error)
}

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// PrintFolio prints a folio receipt.
func (h *PrinterHandler) PrintFolio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintFolioReceipt(c.Request.Context(), id)
	h.respond(c, "Folio receipt printed", receipt, err)
}

// PrintCashierClose prints the close slip of a cashier session.
func (h *PrinterHandler) PrintCashierClose(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintCashierClose(c.Request.Context(), id)
	h.respond(c, "Cashier close slip printed", receipt, err)
}

// respond returns the receipt with a warning when it was built but the printer failed
func (h *PrinterHandler) respond(c *gin.Context, message string, receipt *entity.Receipt, err error) {
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, message, gin.H{
		"receipt": receipt,
	})
}
