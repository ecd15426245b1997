package repository

import (
	"errors"
	"strings"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicineRepository struct{}

func NewMedicineRepository() domainRepo.MedicineRepository {
	return &medicineRepository{}
}

func (r *medicineRepository) Create(db *gorm.DB, medicine *entity.Medicine) error {
	return db.Create(medicine).Error
}

func (r *medicineRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := db.Where("id = ?", id).First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medicine, nil
}

// FindAll lists medicines ordered by name. Every filter field is optional.
func (r *medicineRepository) FindAll(db *gorm.DB, filter *entity.MedicineFilter) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	query := db.Model(&entity.Medicine{})

	if filter != nil {
		if filter.IDs != nil {
			query = query.Where("id IN ?", filter.IDs)
		}
		if q := strings.TrimSpace(filter.Query); q != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		if filter.Category != "" && filter.Category != entity.CategoryAll {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.InStockOnly {
			query = query.Where("stock_quantity > 0")
		}
		if filter.MinPrice != nil {
			query = query.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query = query.Where("price <= ?", *filter.MaxPrice)
		}
	}

	if err := query.Order("name ASC").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) FindPage(db *gorm.DB, limit, offset int) ([]entity.Medicine, error) {
	var medicines []entity.Medicine
	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&medicines).Error
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) Update(db *gorm.DB, medicine *entity.Medicine) error {
	return db.Save(medicine).Error
}

func (r *medicineRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Medicine{})
	return result.RowsAffected, result.Error
}

// DecrementStock atomically takes quantity units ONLY if that many remain.
// Returns affected rows: 1 = taken, 0 = insufficient stock (or unknown medicine).
func (r *medicineRepository) DecrementStock(db *gorm.DB, id uuid.UUID, quantity int) (int64, error) {
	result := db.Model(&entity.Medicine{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	return result.RowsAffected, result.Error
}

func (r *medicineRepository) DecrementStockFloor(db *gorm.DB, id uuid.UUID, quantity int) error {
	return db.Model(&entity.Medicine{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr(
			"CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END", quantity, quantity,
		)).Error
}
