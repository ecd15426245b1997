package repository

import (
	"errors"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{}

func NewCartRepository() domainRepo.CartRepository {
	return &cartRepository{}
}

// EnsureCart inserts the cart row if missing and re-reads it, so concurrent first adds
// converge on the same cart.
func (r *cartRepository) EnsureCart(db *gorm.DB, userID uuid.UUID) (*entity.Cart, error) {
	cart := &entity.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(cart).Error
	if err != nil {
		return nil, err
	}

	var existing entity.Cart
	if err := db.Where("user_id = ?", userID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *cartRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at ASC")
	}).Preload("Items.Medicine").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItems(db *gorm.DB, cartID uuid.UUID) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := db.Preload("Medicine").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem is a single upsert: a new line is inserted, an existing line has its quantity
// incremented in place, so concurrent adds never lose an update.
func (r *cartRepository) AddItem(db *gorm.DB, cartID, medicineID uuid.UUID, quantity int) error {
	item := &entity.CartItem{
		CartID:     cartID,
		MedicineID: medicineID,
		Quantity:   quantity,
	}
	return db.Omit("Medicine").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "medicine_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
}

func (r *cartRepository) UpdateItemQuantity(db *gorm.DB, cartID, itemID uuid.UUID, quantity int) (int64, error) {
	result := db.Model(&entity.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

func (r *cartRepository) DeleteItem(db *gorm.DB, cartID, itemID uuid.UUID) (int64, error) {
	result := db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&entity.CartItem{})
	return result.RowsAffected, result.Error
}

func (r *cartRepository) ClearItems(db *gorm.DB, cartID uuid.UUID) error {
	return db.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}
