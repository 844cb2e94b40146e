package dto

// CreateItemRequest represents the request body for creating an information item.
type CreateItemRequest struct {
	UserID          string  `json:"userId" validate:"required"`
	Type            string  `json:"type" validate:"required"`
	Title           *string `json:"title,omitempty"`
	OriginalContent string  `json:"originalContent" validate:"required"`
}

// UpdateItemRequest represents the request body for updating an information item.
// Omitted fields are left unchanged.
type UpdateItemRequest struct {
	Type            *string `json:"type,omitempty"`
	Title           *string `json:"title,omitempty"`
	OriginalContent *string `json:"originalContent,omitempty"`
}
