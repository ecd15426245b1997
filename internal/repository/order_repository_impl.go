package repository

import (
	"errors"
	"time"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct{}

func NewOrderRepository() domainRepo.OrderRepository {
	return &orderRepository{}
}

// Create inserts the order together with its items.
func (r *orderRepository) Create(db *gorm.DB, order *entity.Order) error {
	return db.Omit("DeliveryAgent").Create(order).Error
}

func (r *orderRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := db.Preload("Items.Medicine").Preload("DeliveryAgent").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := db.Preload("Items.Medicine").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus lists orders in one status, oldest first.
func (r *orderRepository) FindByStatus(db *gorm.DB, status entity.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	err := db.Preload("Items.Medicine").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.OrderStatus) (int64, error) {
	result := db.Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// AssignDeliveryAgent atomically assigns an order ONLY while it is awaiting delivery.
// Returns affected rows: 1 = assigned, 0 = unknown order or already assigned.
func (r *orderRepository) AssignDeliveryAgent(db *gorm.DB, id, agentID uuid.UUID, at time.Time) (int64, error) {
	result := db.Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, entity.OrderStatusPendingDelivery).
		Updates(map[string]interface{}{
			"status":                        entity.OrderStatusAssigned,
			"assigned_to_delivery_agent_id": agentID,
			"assigned_at":                   at,
			"updated_at":                    at,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) CountByAgentAndStatus(db *gorm.DB, agentIDs []uuid.UUID, statuses []entity.OrderStatus) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(agentIDs))
	if len(agentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AgentID uuid.UUID
		Total   int64
	}
	err := db.Model(&entity.Order{}).
		Select("assigned_to_delivery_agent_id AS agent_id, COUNT(*) AS total").
		Where("assigned_to_delivery_agent_id IN ? AND status IN ?", agentIDs, statuses).
		Group("assigned_to_delivery_agent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AgentID] = row.Total
	}
	return counts, nil
}
