package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name       string           `json:"name" binding:"required,min=2,max=255"`
	Code       string           `json:"code" binding:"omitempty,max=100"`
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Stock      *decimal.Decimal `json:"stock"`
	TrackStock bool             `json:"trackStock"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"activeOnly"`
	Page       int    `form:"page"`
	PerPage    int    `form:"limit"`
}
