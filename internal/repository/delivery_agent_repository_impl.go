package repository

import (
	"errors"

	"medimarket/internal/domain/entity"
	domainRepo "medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type deliveryAgentRepository struct{}

func NewDeliveryAgentRepository() domainRepo.DeliveryAgentRepository {
	return &deliveryAgentRepository{}
}

func (r *deliveryAgentRepository) Create(db *gorm.DB, agent *entity.DeliveryAgent) error {
	return db.Create(agent).Error
}

func (r *deliveryAgentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.DeliveryAgent, error) {
	var agent entity.DeliveryAgent
	err := db.Where("id = ?", id).First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r *deliveryAgentRepository) FindActive(db *gorm.DB) ([]entity.DeliveryAgent, error) {
	var agents []entity.DeliveryAgent
	err := db.Where("is_active = ?", true).
		Order("is_available DESC").
		Order("total_deliveries_completed ASC").
		Order("name ASC").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}
