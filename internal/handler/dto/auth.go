package dto

import (
	"time"

	"github.com/infosort/infosort/internal/model"
)

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	LineUserID string `json:"lineUserId" validate:"required"`
}

// LoginUser is the user projection embedded in a login response.
type LoginUser struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse represents a successful login: a bearer token plus the
// authenticated user.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// ToLoginResponse builds a LoginResponse from a user and an issued token.
func ToLoginResponse(user *model.User, token string) *LoginResponse {
	return &LoginResponse{
		Token: token,
		User: LoginUser{
			ID:        user.LineUserID,
			CreatedAt: user.CreatedAt,
		},
	}
}
