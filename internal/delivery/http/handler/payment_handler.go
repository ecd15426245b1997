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

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

// CreateOrder handles opening a gateway order for the caller's cart
// @Summary Create payment order
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentOrderRequest false "Create Payment Order Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentOrderRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.paymentUsecase.CreateOrder(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrPaymentGateway) {
			response.Error(w, http.StatusBadGateway, "Payment provider is unavailable", nil)
			return
		}
		writeOrderCompositionError(w, err, "Failed to create payment order")
		return
	}

	response.Success(w, http.StatusCreated, "Payment order created successfully", result)
}

// Verify handles the checkout callback from the payment gateway
// @Summary Verify payment
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Verify Payment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.paymentUsecase.Verify(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSignature):
			response.BadRequest(w, "Invalid signature")
		case errors.Is(err, usecase.ErrOrderMismatch):
			response.BadRequest(w, "Order does not match the payment")
		case errors.Is(err, usecase.ErrTransactionNotFound):
			response.NotFound(w, "Payment transaction not found")
		default:
			response.InternalServerError(w, "Failed to verify payment")
		}
		return
	}

	message := "Payment verified successfully"
	if result.AlreadyProcessed {
		message = "Payment already processed"
	}
	response.Success(w, http.StatusOK, message, result)
}
