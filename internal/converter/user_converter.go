package converter

import (
	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = roleNameByID(user.RoleID)
	}

	return &dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Phone:           user.Phone,
		ProfileImageURL: user.ProfileImageURL,
		Role:            role,
		IsActive:        user.IsActive,
		IsVerified:      user.IsVerified,
		LastLogin:       user.LastLogin,
		CreatedAt:       user.CreatedAt,
	}
}

func roleNameByID(id int) string {
	for _, role := range entity.DefaultRoles() {
		if role.ID == id {
			return role.RoleName
		}
	}
	return ""
}
