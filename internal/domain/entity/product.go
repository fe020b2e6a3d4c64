package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable item from the minibar, restaurant or shop
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Code       string          `gorm:"size:100;not null" json:"code"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"stock"`
	TrackStock bool            `gorm:"not null" json:"track_stock"`
	IsActive   bool            `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// HasStockFor reports whether qty can be sold. Untracked products always can.
func (p *Product) HasStockFor(qty decimal.Decimal) bool {
	return !p.TrackStock || p.Stock.GreaterThanOrEqual(qty)
}

// MarshalJSON renders amounts with two decimals
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price string `json:"price"`
		Stock string `json:"stock"`
	}{
		Alias: Alias(p),
		Price: money(p.Price),
		Stock: money(p.Stock),
	})
}
