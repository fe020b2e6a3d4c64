package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sangkips/hotel-ledger-api/internal/domain/enum"
)

// Invoice is a fiscal voucher issued for the invoiceable charges of a folio
type Invoice struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	FolioID             uuid.UUID          `gorm:"type:uuid;not null;index" json:"folio_id"`
	SeriesID            uuid.UUID          `gorm:"type:uuid;not null" json:"series_id"`
	VoucherType         enum.VoucherType   `gorm:"size:20;not null" json:"voucher_type"`
	Series              string             `gorm:"size:4;not null" json:"series"`
	Number              int64              `gorm:"not null" json:"number"`
	FullNumber          string             `gorm:"size:20;not null;index" json:"full_number"`
	Status              enum.InvoiceStatus `gorm:"size:20;not null" json:"status"`
	Subtotal            decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax                 decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total               decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	TaxRate             decimal.Decimal    `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	CustomerDocType     string             `gorm:"size:2" json:"customer_doc_type"`
	CustomerDocNumber   string             `gorm:"size:20" json:"customer_doc_number"`
	CustomerName        string             `gorm:"size:255" json:"customer_name"`
	CustomerAddress     string             `gorm:"size:255" json:"customer_address,omitempty"`
	CustomerEmail       string             `gorm:"size:255" json:"customer_email,omitempty"`
	PDFURL              string             `gorm:"size:500" json:"pdf_url,omitempty"`
	XMLURL              string             `gorm:"size:500" json:"xml_url,omitempty"`
	Hash                string             `gorm:"size:255" json:"hash,omitempty"`
	ResponseCode        string             `gorm:"size:20" json:"response_code,omitempty"`
	ResponseDescription string             `gorm:"type:text" json:"response_description,omitempty"`
	FiscalResponse      datatypes.JSON     `json:"fiscal_response,omitempty"`
	IssuedAt            time.Time          `gorm:"not null" json:"issued_at"`
	SubmittedAt         *time.Time         `json:"submitted_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`

	Charges []FolioCharge `gorm:"foreignKey:InvoiceID" json:"charges,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// MarshalJSON renders amounts with two decimals
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal string `json:"subtotal"`
		Tax      string `json:"tax"`
		Total    string `json:"total"`
	}{
		Alias:    Alias(i),
		Subtotal: money(i.Subtotal),
		Tax:      money(i.Tax),
		Total:    money(i.Total),
	})
}
