package auth

import (
	"time"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
)

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest contains input for changing the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserInfo is the authenticated user's profile embedded in auth responses
type UserInfo struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Group        string    `json:"group,omitempty"`
	HasEmbedding bool      `json:"has_embedding"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	User        UserInfo  `json:"user"`
}

// ToUserInfo converts a user entity to its auth profile representation
func ToUserInfo(user *roster.User) UserInfo {
	return UserInfo{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role.String(),
		Group:        user.Group,
		HasEmbedding: user.HasEmbedding(),
	}
}
