package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// DeliveryAgentLoadToResponse converts an agent and its workload to DeliveryAgentResponse DTO
func DeliveryAgentLoadToResponse(load entity.DeliveryAgentLoad) dto.DeliveryAgentResponse {
	agent := load.Agent
	return dto.DeliveryAgentResponse{
		ID:                       agent.ID,
		Name:                     agent.Name,
		Phone:                    agent.Phone,
		VehicleNumber:            agent.VehicleNumber,
		IsActive:                 agent.IsActive,
		IsAvailable:              agent.IsAvailable,
		TotalDeliveriesCompleted: agent.TotalDeliveriesCompleted,
		Rating:                   agent.Rating,
		ActiveDeliveries:         load.ActiveDeliveries,
	}
}
