package model

import "time"

// ItemTagAssociation links one information item to one tag.
// The (ItemID, TagID) pair is unique; duplicates are rejected, not merged.
type ItemTagAssociation struct {
	ItemID    string           `json:"itemId"`
	TagID     string           `json:"tagId"`
	CreatedAt time.Time        `json:"createdAt"`
	Item      *InformationItem `json:"item,omitempty"`
	Tag       *Tag             `json:"tag,omitempty"`
}
