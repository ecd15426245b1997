package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CheckoutRequest struct {
	ShippingAddress map[string]interface{} `json:"shipping_address" validate:"required"`
}

type AssignDeliveryRequest struct {
	DeliveryAgentID string `json:"delivery_agent_id" validate:"required,uuid"`
}

// Response DTOs

type CheckoutResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type OrderItemResponse struct {
	ID              uuid.UUID         `json:"id"`
	Quantity        int               `json:"quantity"`
	PriceAtPurchase decimal.Decimal   `json:"price_at_purchase"`
	Medicine        *MedicineResponse `json:"medicine,omitempty"`
}

type OrderResponse struct {
	ID                        uuid.UUID              `json:"id"`
	OrderNumber               string                 `json:"order_number"`
	UserID                    uuid.UUID              `json:"user_id"`
	Status                    string                 `json:"status"`
	TotalAmount               decimal.Decimal        `json:"total_amount"`
	ShippingAddress           map[string]interface{} `json:"shipping_address,omitempty"`
	CustomerName              string                 `json:"customer_name,omitempty"`
	CustomerPhone             string                 `json:"customer_phone,omitempty"`
	AssignedToDeliveryAgentID *uuid.UUID             `json:"assigned_to_delivery_agent_id,omitempty"`
	AssignedAt                *time.Time             `json:"assigned_at,omitempty"`
	CreatedAt                 time.Time              `json:"created_at"`
	Items                     []OrderItemResponse    `json:"items"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}
