package dto

// CreateTagRequest represents the request body for creating a tag.
type CreateTagRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// UpdateTagRequest represents the request body for updating a tag.
// Omitted fields are left unchanged.
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
