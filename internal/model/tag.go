package model

import "time"

// Tag is a reusable label attachable to information items.
//
// Tag names are unique system-wide even though each tag records an owner.
// Reads are owner-scoped; the write-time uniqueness check is not.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UserID      *string   `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
