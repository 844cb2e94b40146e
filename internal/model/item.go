package model

import "time"

// InformationItem is a content record owned by exactly one user.
// Ownership never transfers. Tags holds the eagerly loaded associations.
type InformationItem struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Type            string    `json:"type"`
	Title           *string   `json:"title,omitempty"`
	OriginalContent string    `json:"originalContent"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Tags            []Tag     `json:"tags,omitempty"`
}
