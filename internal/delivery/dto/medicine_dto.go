package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateMedicineRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=255"`
	Description   string          `json:"description"`
	Category      string          `json:"category" validate:"required,max=100"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Manufacturer  string          `json:"manufacturer" validate:"max=255"`
	Dosage        string          `json:"dosage" validate:"max=100"`
	ImageURL      string          `json:"image_url" validate:"omitempty,url"`
}

type UpdateMedicineRequest = CreateMedicineRequest

// MedicineQuery carries the raw storefront filters
type MedicineQuery struct {
	Q           string
	Category    string
	InStockOnly bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// Response DTOs

type MedicineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	Dosage        string          `json:"dosage,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type MedicineListResponse struct {
	Medicines []MedicineResponse `json:"medicines"`
	Total     int                `json:"total"`
	Fuzzy     bool               `json:"fuzzy"`
}
