package repository

import (
	"time"

	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(db *gorm.DB, order *entity.Order) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Order, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Order, error)
	FindByStatus(db *gorm.DB, status entity.OrderStatus) ([]entity.Order, error)
	// TransitionStatus moves the order from one status to another; 0 rows affected means the
	// order was not in the expected status.
	TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.OrderStatus) (int64, error)
	AssignDeliveryAgent(db *gorm.DB, id, agentID uuid.UUID, at time.Time) (int64, error)
	CountByAgentAndStatus(db *gorm.DB, agentIDs []uuid.UUID, statuses []entity.OrderStatus) (map[uuid.UUID]int64, error)
}
