package dto

// CreateAssociationRequest represents the request body for linking a tag to an item.
type CreateAssociationRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	TagID  string `json:"tagId" validate:"required"`
}
