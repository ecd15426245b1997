package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsVerified      bool       `json:"is_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SyncUserResponse reports the internal user behind the caller's identity
type SyncUserResponse struct {
	User    UserResponse `json:"user"`
	Created bool         `json:"created"`
	Linked  bool         `json:"linked"`
}
