package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/usecase"
	"medimarket/pkg/response"
	"medimarket/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DeliveryHandler struct {
	deliveryUsecase usecase.DeliveryUsecase
	validator       *validator.CustomValidator
}

func NewDeliveryHandler(deliveryUsecase usecase.DeliveryUsecase, validator *validator.CustomValidator) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryUsecase: deliveryUsecase,
		validator:       validator,
	}
}

// GetAvailableAgents lists active delivery agents with their current load
// @Summary List delivery agents
// @Tags Delivery
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/delivery-agents/available [get]
func (h *DeliveryHandler) GetAvailableAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.deliveryUsecase.GetAvailableAgents(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get delivery agents")
		return
	}

	response.Success(w, http.StatusOK, "Delivery agents retrieved successfully", agents)
}

func (h *DeliveryHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeliveryAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	agent, err := h.deliveryUsecase.CreateAgent(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create delivery agent")
		return
	}

	response.Success(w, http.StatusCreated, "Delivery agent created successfully", agent)
}

// AssignOrder hands a PENDING_DELIVERY order to a delivery agent
// @Summary Assign order
// @Tags Delivery
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body dto.AssignDeliveryRequest true "Assign Delivery Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/orders/{orderId}/assign [post]
func (h *DeliveryHandler) AssignOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req dto.AssignDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.deliveryUsecase.AssignOrder(r.Context(), orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidID):
			response.BadRequest(w, "Invalid delivery agent ID")
		case errors.Is(err, usecase.ErrDeliveryAgentNotFound):
			response.NotFound(w, "Delivery agent not found")
		case errors.Is(err, usecase.ErrOrderNotAssignable):
			response.NotFound(w, "Order not found or already assigned")
		default:
			response.InternalServerError(w, "Failed to assign order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order assigned successfully", order)
}
