package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusPendingDelivery     OrderStatus = "PENDING_DELIVERY"
	OrderStatusAssigned            OrderStatus = "ASSIGNED"
	OrderStatusAcceptedForDelivery OrderStatus = "ACCEPTED_FOR_DELIVERY"
	OrderStatusOutForDelivery      OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered           OrderStatus = "DELIVERED"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// ActiveDeliveryStatuses are the states in which an order occupies a delivery agent
var ActiveDeliveryStatuses = []OrderStatus{
	OrderStatusAssigned,
	OrderStatusAcceptedForDelivery,
	OrderStatusOutForDelivery,
}

// Order is immutable once created except for its status and delivery assignment fields.
// TotalAmount is the pre-tax subtotal frozen at creation time.
type Order struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	UserID                    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Status                    OrderStatus     `gorm:"type:varchar(32);not null;index" json:"status"`
	TotalAmount               decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	ShippingAddress           JSON            `gorm:"type:jsonb" json:"shipping_address,omitempty"`
	CustomerName              string          `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CustomerPhone             string          `gorm:"type:varchar(32)" json:"customer_phone,omitempty"`
	AssignedToDeliveryAgentID *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to_delivery_agent_id,omitempty"`
	AssignedAt                *time.Time      `json:"assigned_at,omitempty"`
	CreatedAt                 time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt                 time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Items         []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	DeliveryAgent *DeliveryAgent `gorm:"foreignKey:AssignedToDeliveryAgentID" json:"delivery_agent,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the order still awaits payment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsAwaitingDelivery checks if the order can be handed to a delivery agent
func (o *Order) IsAwaitingDelivery() bool {
	return o.Status == OrderStatusPendingDelivery
}

// OrderItem is an immutable order line; PriceAtPurchase is frozen at order time.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MedicineID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"medicine_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Medicine *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal returns price_at_purchase * quantity
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
