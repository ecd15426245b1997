package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateDeliveryAgentRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Phone         string `json:"phone" validate:"max=32"`
	VehicleNumber string `json:"vehicle_number" validate:"max=32"`
}

type DeliveryAgentResponse struct {
	ID                       uuid.UUID       `json:"id"`
	Name                     string          `json:"name"`
	Phone                    string          `json:"phone,omitempty"`
	VehicleNumber            string          `json:"vehicle_number,omitempty"`
	IsActive                 bool            `json:"is_active"`
	IsAvailable              bool            `json:"is_available"`
	TotalDeliveriesCompleted int             `json:"total_deliveries_completed"`
	Rating                   decimal.Decimal `json:"rating"`
	ActiveDeliveries         int64           `json:"active_deliveries"`
}

type DeliveryAgentListResponse struct {
	Agents []DeliveryAgentResponse `json:"agents"`
	Total  int                     `json:"total"`
}
