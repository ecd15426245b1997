package payment

import (
	"context"
	"errors"
	"fmt"

	"medimarket/config"
	"medimarket/internal/domain/port"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderCreator is the slice of the Razorpay SDK the gateway needs.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayGateway struct {
	orders OrderCreator
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return &RazorpayGateway{orders: client.Order}
}

// NewRazorpayGatewayWith wraps an existing order client.
func NewRazorpayGatewayWith(orders OrderCreator) *RazorpayGateway {
	return &RazorpayGateway{orders: orders}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req port.GatewayOrderRequest) (*port.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	body, err := g.orders.Create(map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: response has no id")
	}

	order := &port.GatewayOrder{
		ID:          id,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	}
	if amount, ok := body["amount"].(float64); ok {
		order.AmountMinor = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}
	order.Status, _ = body["status"].(string)

	return order, nil
}
