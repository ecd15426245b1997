package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedicineFilter is a domain-level filter for listing medicines.
// Used by repository layer to avoid coupling with delivery DTOs.
type MedicineFilter struct {
	Query       string           // case-insensitive substring on name
	IDs         []uuid.UUID      // restrict to these rows (fuzzy search hits)
	Category    string           // exact match, ignored when empty or "All"
	InStockOnly bool             // stock_quantity > 0
	MinPrice    *decimal.Decimal // inclusive
	MaxPrice    *decimal.Decimal // inclusive
}
