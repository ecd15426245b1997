package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// CartToResponse converts a Cart entity to CartResponse DTO. A nil cart is an empty cart.
func CartToResponse(cart *entity.Cart) *dto.CartResponse {
	if cart == nil {
		summary := entity.SummarizeCart(nil)
		return &dto.CartResponse{
			Items:    []dto.CartItemResponse{},
			Subtotal: summary.Subtotal,
			Tax:      summary.Tax,
			Total:    summary.Total,
		}
	}

	items := make([]dto.CartItemResponse, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		items[i] = dto.CartItemResponse{
			ID:        item.ID,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
			Medicine:  MedicineToResponse(item.Medicine),
		}
	}

	summary := entity.SummarizeCart(cart.Items)
	id := cart.ID
	return &dto.CartResponse{
		ID:       &id,
		Items:    items,
		Subtotal: summary.Subtotal,
		Tax:      summary.Tax,
		Total:    summary.Total,
	}
}
