package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus represents the lifecycle of one payment attempt
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
	TransactionStatusFailed  TransactionStatus = "failed"
)

const (
	TransactionTypeMarketplacePurchase = "marketplace_purchase"
	PaymentMethodRazorpay              = "razorpay"
	DefaultTransactionDescription      = "Marketplace Purchase"
)

// FinanceTransaction is the ledger row for one payment attempt, keyed by the gateway order id.
// Amount is the gross charged amount including tax.
type FinanceTransaction struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	TransactionType  string            `gorm:"type:varchar(50);not null" json:"transaction_type"`
	Amount           decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency         string            `gorm:"type:varchar(3);not null" json:"currency"`
	Status           TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	GatewayOrderID   string            `gorm:"type:varchar(100);uniqueIndex;not null" json:"gateway_order_id"`
	GatewayPaymentID *string           `gorm:"type:varchar(100)" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string           `gorm:"type:varchar(255)" json:"-"`
	PaymentMethod    *string           `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	Description      string            `gorm:"type:text" json:"description,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinanceTransaction) TableName() string {
	return "finance_transactions"
}

func (t *FinanceTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsPaid checks if the payment has been verified
func (t *FinanceTransaction) IsPaid() bool {
	return t.Status == TransactionStatusPaid
}

// Receipt is issued once per paid transaction.
type Receipt struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiptNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"receipt_number"`
	TransactionID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"transaction_id"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentMethod    string          `gorm:"type:varchar(50);not null" json:"payment_method"`
	GatewayPaymentID string          `gorm:"type:varchar(100)" json:"gateway_payment_id"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
