package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/usecase"
	"medimarket/pkg/response"
	"medimarket/pkg/validator"
)

type CheckoutHandler struct {
	checkoutUsecase usecase.CheckoutUsecase
	validator       *validator.CustomValidator
}

func NewCheckoutHandler(checkoutUsecase usecase.CheckoutUsecase, validator *validator.CustomValidator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUsecase: checkoutUsecase,
		validator:       validator,
	}
}

// Checkout handles turning the cart into an order settled outside the payment gateway
// @Summary Checkout
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.checkoutUsecase.Checkout(r.Context(), &req)
	if err != nil {
		writeOrderCompositionError(w, err, "Failed to checkout")
		return
	}

	response.Success(w, http.StatusCreated, "Order placed successfully", result)
}

// writeOrderCompositionError maps the failures shared by checkout and payment order creation.
func writeOrderCompositionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrCartEmpty):
		response.BadRequest(w, "Cart is empty")
	case errors.Is(err, usecase.ErrInsufficientStock), errors.Is(err, usecase.ErrMedicineUnavailable):
		response.BadRequest(w, sentence(err))
	default:
		response.InternalServerError(w, fallback)
	}
}
