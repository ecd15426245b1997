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
)

type CartHandler struct {
	cartUsecase usecase.CartUsecase
	validator   *validator.CustomValidator
}

func NewCartHandler(cartUsecase usecase.CartUsecase, validator *validator.CustomValidator) *CartHandler {
	return &CartHandler{
		cartUsecase: cartUsecase,
		validator:   validator,
	}
}

// GetCart handles reading the caller's cart
// @Summary Get cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUsecase.GetCart(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to get cart")
		return
	}

	response.Success(w, http.StatusOK, "Cart retrieved successfully", cart)
}

// AddItem handles adding a medicine to the cart
// @Summary Add to cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AddToCartRequest true "Add To Cart Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cart [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	cart, err := h.cartUsecase.AddItem(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to add item to cart")
		return
	}

	response.Success(w, http.StatusOK, "Item added to cart", cart)
}

// UpdateItem handles changing a line quantity. Zero or below removes the line.
// @Summary Update cart item
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateCartItemRequest true "Update Cart Item Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cart [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	cart, err := h.cartUsecase.UpdateItem(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to update cart item")
		return
	}

	response.Success(w, http.StatusOK, "Cart item updated", cart)
}

// RemoveItem handles deleting a cart line
// @Summary Remove cart item
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id query string true "Cart item ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cart [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		response.BadRequest(w, "Missing ID")
		return
	}

	itemID, err := uuid.Parse(rawID)
	if err != nil {
		response.BadRequest(w, "Invalid cart item ID")
		return
	}

	if err := h.cartUsecase.RemoveItem(r.Context(), itemID); err != nil {
		h.writeError(w, err, "Failed to remove cart item")
		return
	}

	response.Success(w, http.StatusOK, "Cart item removed", nil)
}

func (h *CartHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrInvalidID):
		response.BadRequest(w, "Invalid ID")
	case errors.Is(err, usecase.ErrMedicineNotFound):
		response.NotFound(w, "Medicine not found")
	case errors.Is(err, usecase.ErrCartItemNotFound):
		response.NotFound(w, "Cart item not found")
	default:
		response.InternalServerError(w, fallback)
	}
}
