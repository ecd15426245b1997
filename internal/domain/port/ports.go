package port

import (
	"context"
	"errors"
	"time"

	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSearchUnavailable is returned by searchers that are not configured.
var ErrSearchUnavailable = errors.New("search index unavailable")

// GatewayOrderRequest describes a remote payment order. AmountMinor is in the currency's
// smallest unit (paise for INR).
type GatewayOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

// PaymentGateway opens orders at the third-party payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}

// Order event types
const (
	OrderEventCreated  = "order.created"
	OrderEventPaid     = "order.paid"
	OrderEventAssigned = "order.assigned"
)

type OrderEvent struct {
	Type            string             `json:"type"`
	OrderID         uuid.UUID          `json:"order_id"`
	OrderNumber     string             `json:"order_number"`
	UserID          uuid.UUID          `json:"user_id"`
	Status          entity.OrderStatus `json:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	DeliveryAgentID *uuid.UUID         `json:"delivery_agent_id,omitempty"`
	OccurredAt      time.Time          `json:"occurred_at"`
}

// EventPublisher emits order lifecycle events to downstream consumers.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

// MedicineSearcher is a fuzzy index over the catalog.
type MedicineSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
	Index(ctx context.Context, medicine *entity.Medicine) error
	IndexBatch(ctx context.Context, medicines []entity.Medicine) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// MedicineChangeNotifier fans catalog changes out to realtime subscribers.
type MedicineChangeNotifier interface {
	Notify(ctx context.Context, change entity.MedicineChange) error
}

// IdentityCache keeps external subject -> internal user lookups. Get returns (nil, nil) on miss.
type IdentityCache interface {
	Get(ctx context.Context, authID string) (*entity.User, error)
	Set(ctx context.Context, authID string, user *entity.User) error
	Delete(ctx context.Context, authID string) error
}

// TokenDenylist tracks identity tokens revoked before their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
