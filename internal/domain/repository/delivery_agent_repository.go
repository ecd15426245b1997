package repository

import (
	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryAgentRepository interface {
	Create(db *gorm.DB, agent *entity.DeliveryAgent) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.DeliveryAgent, error)
	// FindActive orders by availability first, then by fewest completed deliveries.
	FindActive(db *gorm.DB) ([]entity.DeliveryAgent, error)
}
