package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreatePaymentOrderRequest struct {
	Currency        string                 `json:"currency" validate:"omitempty,len=3"`
	Description     string                 `json:"description" validate:"max=255"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
}

// VerifyPaymentRequest is the gateway checkout callback body
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	OrderID           string `json:"order_id" validate:"omitempty,uuid"`
}

// Response DTOs

// CreatePaymentOrderResponse - Amount is in the currency's smallest unit
type CreatePaymentOrderResponse struct {
	ID        string    `json:"id"`
	Currency  string    `json:"currency"`
	Amount    int64     `json:"amount"`
	DBOrderID uuid.UUID `json:"db_order_id"`
}

type VerifyPaymentResponse struct {
	OrderID          uuid.UUID `json:"order_id"`
	Status           string    `json:"status"`
	AlreadyProcessed bool      `json:"already_processed"`
}
