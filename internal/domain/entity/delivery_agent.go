package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryAgent counters are informational and only used for sorting.
type DeliveryAgent struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name                     string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone                    string          `gorm:"type:varchar(32)" json:"phone,omitempty"`
	VehicleNumber            string          `gorm:"type:varchar(32)" json:"vehicle_number,omitempty"`
	IsActive                 bool            `gorm:"not null;index" json:"is_active"`
	IsAvailable              bool            `gorm:"not null" json:"is_available"`
	TotalDeliveriesCompleted int             `gorm:"not null;default:0" json:"total_deliveries_completed"`
	Rating                   decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	CreatedAt                time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DeliveryAgent) TableName() string {
	return "delivery_agents"
}

func (a *DeliveryAgent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DeliveryAgentLoad pairs an agent with its number of in-flight deliveries
type DeliveryAgentLoad struct {
	Agent            DeliveryAgent
	ActiveDeliveries int64
}
