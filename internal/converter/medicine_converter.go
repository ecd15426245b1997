package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// MedicineToResponse converts a Medicine entity to MedicineResponse DTO
func MedicineToResponse(medicine *entity.Medicine) *dto.MedicineResponse {
	if medicine == nil {
		return nil
	}

	return &dto.MedicineResponse{
		ID:            medicine.ID,
		Name:          medicine.Name,
		Description:   medicine.Description,
		Category:      medicine.Category,
		Price:         medicine.Price,
		StockQuantity: medicine.StockQuantity,
		Manufacturer:  medicine.Manufacturer,
		Dosage:        medicine.Dosage,
		ImageURL:      medicine.ImageURL,
		CreatedAt:     medicine.CreatedAt,
	}
}

// MedicinesToResponses converts a slice of Medicine entities to MedicineResponse DTOs
func MedicinesToResponses(medicines []entity.Medicine) []dto.MedicineResponse {
	responses := make([]dto.MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = *MedicineToResponse(&medicines[i])
	}
	return responses
}
