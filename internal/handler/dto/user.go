package dto

import "github.com/infosort/infosort/internal/model"

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	LineUserID string `json:"lineUserId" validate:"required"`
}

// DeleteUserResponse confirms a user deletion and echoes the removed record.
type DeleteUserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}
