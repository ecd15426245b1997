package repository

import (
	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicineRepository interface {
	Create(db *gorm.DB, medicine *entity.Medicine) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Medicine, error)
	FindAll(db *gorm.DB, filter *entity.MedicineFilter) ([]entity.Medicine, error)
	FindPage(db *gorm.DB, limit, offset int) ([]entity.Medicine, error)
	Update(db *gorm.DB, medicine *entity.Medicine) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	// DecrementStock only succeeds when enough stock remains; 0 rows affected means it did not.
	DecrementStock(db *gorm.DB, id uuid.UUID, quantity int) (int64, error)
	// DecrementStockFloor subtracts quantity, clamping the result at zero.
	DecrementStockFloor(db *gorm.DB, id uuid.UUID, quantity int) error
}
