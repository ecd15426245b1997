package repository

import (
	"errors"
	"time"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type financeTransactionRepository struct{}

func NewFinanceTransactionRepository() domainRepo.FinanceTransactionRepository {
	return &financeTransactionRepository{}
}

func (r *financeTransactionRepository) CreateIfAbsent(db *gorm.DB, txn *entity.FinanceTransaction) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gateway_order_id"}},
		DoNothing: true,
	}).Create(txn)
	return result.RowsAffected > 0, result.Error
}

func (r *financeTransactionRepository) FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*entity.FinanceTransaction, error) {
	var txn entity.FinanceTransaction
	err := db.Where("gateway_order_id = ?", gatewayOrderID).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// MarkPaid flips a pending transaction to paid.
// Returns affected rows: 1 = this call settled it, 0 = it was already settled.
func (r *financeTransactionRepository) MarkPaid(db *gorm.DB, gatewayOrderID, paymentID, signature, method string, paidAt time.Time) (int64, error) {
	result := db.Model(&entity.FinanceTransaction{}).
		Where("gateway_order_id = ? AND status = ?", gatewayOrderID, entity.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":             entity.TransactionStatusPaid,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
			"payment_method":     method,
			"paid_at":            paidAt,
			"updated_at":         paidAt,
		})
	return result.RowsAffected, result.Error
}

type receiptRepository struct{}

func NewReceiptRepository() domainRepo.ReceiptRepository {
	return &receiptRepository{}
}

func (r *receiptRepository) CreateIfAbsent(db *gorm.DB, receipt *entity.Receipt) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(receipt).Error
}
