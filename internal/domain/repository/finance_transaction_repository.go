package repository

import (
	"time"

	"medimarket/internal/domain/entity"

	"gorm.io/gorm"
)

type FinanceTransactionRepository interface {
	// CreateIfAbsent tolerates an existing row for the same gateway order id and reports
	// whether a new row was written.
	CreateIfAbsent(db *gorm.DB, txn *entity.FinanceTransaction) (bool, error)
	FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*entity.FinanceTransaction, error)
	MarkPaid(db *gorm.DB, gatewayOrderID, paymentID, signature, method string, paidAt time.Time) (int64, error)
}

type ReceiptRepository interface {
	CreateIfAbsent(db *gorm.DB, receipt *entity.Receipt) error
}
