package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// OrderToResponse converts an Order entity to OrderResponse DTO
func OrderToResponse(order *entity.Order) *dto.OrderResponse {
	if order == nil {
		return nil
	}

	items := make([]dto.OrderItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = dto.OrderItemResponse{
			ID:              item.ID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Medicine:        MedicineToResponse(item.Medicine),
		}
	}

	return &dto.OrderResponse{
		ID:                        order.ID,
		OrderNumber:               order.OrderNumber,
		UserID:                    order.UserID,
		Status:                    string(order.Status),
		TotalAmount:               order.TotalAmount,
		ShippingAddress:           order.ShippingAddress,
		CustomerName:              order.CustomerName,
		CustomerPhone:             order.CustomerPhone,
		AssignedToDeliveryAgentID: order.AssignedToDeliveryAgentID,
		AssignedAt:                order.AssignedAt,
		CreatedAt:                 order.CreatedAt,
		Items:                     items,
	}
}

// OrdersToResponses converts a slice of Order entities to OrderResponse DTOs
func OrdersToResponses(orders []entity.Order) []dto.OrderResponse {
	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = *OrderToResponse(&orders[i])
	}
	return responses
}
