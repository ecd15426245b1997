package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type AddToCartRequest struct {
	MedicineID string `json:"medicine_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gte=1,lte=1000"`
}

// UpdateCartItemRequest - a quantity of zero or below removes the line
type UpdateCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"lte=1000"`
}

// Response DTOs

type CartItemResponse struct {
	ID        uuid.UUID         `json:"id"`
	Quantity  int               `json:"quantity"`
	LineTotal decimal.Decimal   `json:"line_total"`
	Medicine  *MedicineResponse `json:"medicine"`
}

type CartResponse struct {
	ID       *uuid.UUID         `json:"id,omitempty"`
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
}
