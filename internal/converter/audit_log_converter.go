package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.AuditLogResponse{
			ID:         log.ID,
			User:       UserToResponse(log.User),
			Action:     log.Action,
			EntityType: log.EntityType,
			EntityID:   log.EntityID,
			Metadata:   log.Metadata,
			CreatedAt:  log.CreatedAt,
		}
	}
	return responses
}
