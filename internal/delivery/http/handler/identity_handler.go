package handler

import (
	"errors"
	"net/http"

	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/usecase"
	"medimarket/pkg/response"
)

type IdentityHandler struct {
	identityUsecase usecase.IdentityUsecase
}

func NewIdentityHandler(identityUsecase usecase.IdentityUsecase) *IdentityHandler {
	return &IdentityHandler{
		identityUsecase: identityUsecase,
	}
}

// SyncUser handles mapping the caller's identity to an internal user
// @Summary Sync identity
// @Description Find, link or create the internal user for the bearer token's subject
// @Tags Identity
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sync-user [get]
func (h *IdentityHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	result, err := h.identityUsecase.SyncUser(r.Context(), claims)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrIdentityEmailMissing):
			response.BadRequest(w, "Token has no email address")
		case errors.Is(err, usecase.ErrIdentityConflict):
			response.Conflict(w, "Identity could not be linked to an account")
		default:
			response.InternalServerError(w, "Failed to sync user")
		}
		return
	}

	response.Success(w, http.StatusOK, "User synced successfully", result)
}

// Logout revokes the bearer token until it expires
// @Summary Logout
// @Tags Identity
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *IdentityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	if err := h.identityUsecase.Logout(r.Context(), claims); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}
