package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenCashierRequest represents a cashier open request
type OpenCashierRequest struct {
	OpeningAmount *decimal.Decimal `json:"openingAmount" binding:"required"`
	OpeningNotes  *string          `json:"openingNotes" binding:"omitempty,max=1000"`
}

// CloseCashierRequest represents a cashier close request
type CloseCashierRequest struct {
	CountedAmount *decimal.Decimal `json:"countedAmount" binding:"required"`
	ClosingNotes  *string          `json:"closingNotes" binding:"omitempty,max=1000"`
}

// WalkInSaleRequest represents a counter sale paid on the spot
type WalkInSaleRequest struct {
	ChargeType      string           `json:"chargeType" binding:"required,oneof=ROOM PRODUCT SERVICE OTHER"`
	ProductPublicID *uuid.UUID       `json:"productPublicId"`
	Description     string           `json:"description" binding:"required,max=255"`
	Quantity        *decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice" binding:"required"`
	PaymentMethod   string           `json:"paymentMethod" binding:"required"`
	Notes           *string          `json:"notes"`
}

// RoomChargeRequest represents a charge posted to an in-house guest
type RoomChargeRequest struct {
	ReservationCode string           `json:"reservationCode" binding:"required,max=50"`
	ChargeType      string           `json:"chargeType" binding:"required,oneof=ROOM PRODUCT SERVICE OTHER"`
	ProductPublicID *uuid.UUID       `json:"productPublicId"`
	Description     string           `json:"description" binding:"required,max=255"`
	Quantity        *decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice" binding:"required"`
}

// OpenFolioRequest represents a folio open request
type OpenFolioRequest struct {
	ReservationCode string  `json:"reservationCode" binding:"omitempty,max=50"`
	Notes           *string `json:"notes"`
}

// AddChargeRequest represents one charge line posted to a folio
type AddChargeRequest struct {
	ChargeType      string           `json:"chargeType" binding:"required,oneof=ROOM PRODUCT SERVICE OTHER"`
	ProductPublicID *uuid.UUID       `json:"productPublicId"`
	Description     string           `json:"description" binding:"required,max=255"`
	Quantity        *decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice" binding:"required"`
	IsInvoiceable   *bool            `json:"isInvoiceable"`
}

// PaymentToFolioRequest represents a payment applied to a folio
type PaymentToFolioRequest struct {
	FolioPublicID    uuid.UUID        `json:"folioPublicId" binding:"required"`
	PaymentMethod    string           `json:"paymentMethod" binding:"required"`
	Amount           *decimal.Decimal `json:"amount" binding:"required"`
	ReferenceNumber  string           `json:"referenceNumber" binding:"omitempty,max=100"`
	Notes            *string          `json:"notes"`
	AllowOverpayment bool             `json:"allowOverpayment"`
}

// CreateVoucherSeriesRequest represents a voucher series creation request
type CreateVoucherSeriesRequest struct {
	VoucherType   string `json:"voucherType" binding:"required,oneof=FACTURA BOLETA NOTA_CREDITO NOTA_DEBITO"`
	Series        string `json:"series" binding:"required,len=4"`
	StartNumber   int64  `json:"startNumber" binding:"omitempty,min=1"`
	IsDefault     bool   `json:"isDefault"`
	Description   string `json:"description" binding:"omitempty,max=255"`
	EmissionPoint string `json:"emissionPoint" binding:"omitempty,max=100"`
}

// VoucherSeriesFilterRequest filters series listings
type VoucherSeriesFilterRequest struct {
	VoucherType string `form:"voucherType"`
	ActiveOnly  bool   `form:"activeOnly"`
}

// IssueInvoiceRequest represents an invoice issuance request for a folio
type IssueInvoiceRequest struct {
	VoucherType       string `json:"voucherType" binding:"required,oneof=FACTURA BOLETA"`
	CustomerDocType   string `json:"customerDocType" binding:"omitempty,max=2"`
	CustomerDocNumber string `json:"customerDocNumber" binding:"omitempty,max=20"`
	CustomerName      string `json:"customerName" binding:"omitempty,max=255"`
	CustomerAddress   string `json:"customerAddress" binding:"omitempty,max=255"`
	CustomerEmail     string `json:"customerEmail" binding:"omitempty,email,max=255"`
}

// UpdateTaxRateRequest changes the tenant's IGV percentage
type UpdateTaxRateRequest struct {
	TaxRate *decimal.Decimal `json:"taxRate" binding:"required"`
}
