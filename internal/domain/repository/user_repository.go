package repository

import (
	"time"

	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByAuthID(db *gorm.DB, authID string) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	TouchLastLogin(db *gorm.DB, id uuid.UUID, at time.Time) error
	LinkAuthID(db *gorm.DB, id uuid.UUID, authID string, at time.Time) (int64, error)
}
