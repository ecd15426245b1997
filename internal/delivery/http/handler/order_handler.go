package handler

import (
	"errors"
	"net/http"

	"medimarket/internal/usecase"
	"medimarket/pkg/response"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
}

func NewOrderHandler(orderUsecase usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
	}
}

func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.GetMyOrders(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrUnauthenticated) {
			response.Unauthorized(w, "")
			return
		}
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetPendingDelivery(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.GetPendingDelivery(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get pending orders")
		return
	}

	response.Success(w, http.StatusOK, "Pending orders retrieved successfully", orders)
}
