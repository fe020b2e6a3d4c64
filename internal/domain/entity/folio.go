package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// BalanceTolerance is the residual balance at which a folio counts as settled
var BalanceTolerance = decimal.New(1, -2)

// Folio is the running account of charges and payments for a stay or a walk-in sale.
// Balance always equals Total minus the sum of its payments.
type Folio struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ReservationID *uuid.UUID       `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	Status        enum.FolioStatus `gorm:"size:20;not null;index" json:"status"`
	Subtotal      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total"`
	Balance       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"balance"`
	Notes         *string          `gorm:"type:text" json:"notes,omitempty"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relationships
	Charges  []FolioCharge `gorm:"foreignKey:FolioID" json:"charges,omitempty"`
	Payments []Payment     `gorm:"foreignKey:FolioID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new folio
func (f *Folio) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Folio model
func (Folio) TableName() string {
	return "folios"
}

// IsOpen reports whether the folio accepts charges and payments
func (f *Folio) IsOpen() bool {
	return f.Status == enum.FolioStatusOpen
}

// IsSettled reports whether the remaining balance is within one cent of zero or below it
func (f *Folio) IsSettled() bool {
	return f.Balance.LessThanOrEqual(BalanceTolerance)
}

// MarshalJSON renders amounts with two decimals
func (f Folio) MarshalJSON() ([]byte, error) {
	type Alias Folio
	return json.Marshal(&struct {
		Alias
		Subtotal string `json:"subtotal"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
		Balance  string `json:"balance"`
	}{
		Alias:    Alias(f),
		Subtotal: money(f.Subtotal),
		Tax:      money(f.Tax),
		Total:    money(f.Total),
		Balance:  money(f.Balance),
	})
}

// FolioCharge is one line posted to a folio. Unit price is tax inclusive.
type FolioCharge struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	FolioID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"folio_id"`
	ChargeType    enum.ChargeType `gorm:"size:20;not null" json:"charge_type"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	IsInvoiceable bool            `gorm:"not null" json:"is_invoiceable"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new charge
func (c *FolioCharge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the FolioCharge model
func (FolioCharge) TableName() string {
	return "folio_charges"
}

// IsInvoiced reports whether the charge was already included in a fiscal voucher
func (c *FolioCharge) IsInvoiced() bool {
	return c.InvoiceID != nil
}

// MarshalJSON renders amounts with two decimals
func (c FolioCharge) MarshalJSON() ([]byte, error) {
	type Alias FolioCharge
	return json.Marshal(&struct {
		Alias
		Quantity  string `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
		Tax       string `json:"tax"`
		Total     string `json:"total"`
	}{
		Alias:     Alias(c),
		Quantity:  money(c.Quantity),
		UnitPrice: money(c.UnitPrice),
		Subtotal:  money(c.Subtotal),
		Tax:       money(c.Tax),
		Total:     money(c.Total),
	})
}

// Payment is an immutable amount applied against a folio
type Payment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID          `gorm:"type:uuid;not null;index:idx_payments_tenant_paid_at" json:"tenant_id"`
	FolioID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"folio_id"`
	Method          enum.PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Amount          decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReferenceNumber string             `gorm:"size:100;not null" json:"reference_number"`
	PaidAt          time.Time          `gorm:"not null;index:idx_payments_tenant_paid_at" json:"paid_at"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// MarshalJSON renders the amount with two decimals
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount string `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: money(p.Amount),
	})
}

// PaymentCounter is the per tenant, per year sequence behind generated payment references
type PaymentCounter struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64     `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for the PaymentCounter model
func (PaymentCounter) TableName() string {
	return "payment_reference_counters"
}
