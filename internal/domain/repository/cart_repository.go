package repository

import (
	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepository interface {
	// EnsureCart returns the user's cart, creating it when absent.
	EnsureCart(db *gorm.DB, userID uuid.UUID) (*entity.Cart, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Cart, error)
	FindItems(db *gorm.DB, cartID uuid.UUID) ([]entity.CartItem, error)
	// AddItem inserts the line or atomically increments the existing quantity.
	AddItem(db *gorm.DB, cartID, medicineID uuid.UUID, quantity int) error
	UpdateItemQuantity(db *gorm.DB, cartID, itemID uuid.UUID, quantity int) (int64, error)
	DeleteItem(db *gorm.DB, cartID, itemID uuid.UUID) (int64, error)
	ClearItems(db *gorm.DB, cartID uuid.UUID) error
}
