package repository

import (
	"errors"
	"time"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit("Role", "PatientProfile").Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *userRepository) FindByAuthID(db *gorm.DB, authID string) (*entity.User, error) {
	return r.findOne(db.Where("auth_id = ?", authID))
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return r.findOne(db.Where("LOWER(email) = LOWER(?)", email))
}

func (r *userRepository) TouchLastLogin(db *gorm.DB, id uuid.UUID, at time.Time) error {
	return db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_login": at, "updated_at": at}).Error
}

// LinkAuthID attaches an external identity to the row, replacing any previous one.
// Returns affected rows: 0 means the row no longer exists.
func (r *userRepository) LinkAuthID(db *gorm.DB, id uuid.UUID, authID string, at time.Time) (int64, error) {
	result := db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"auth_id":     authID,
			"is_verified": true,
			"last_login":  at,
			"updated_at":  at,
		})
	return result.RowsAffected, result.Error
}

func (r *userRepository) findOne(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.Preload("Role").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
