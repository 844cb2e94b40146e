// Package model defines domain entities for the application.
package model

import "time"

// User is the minimal identity record. The LINE User ID issued by the
// external identity provider serves as the primary key and is immutable.
type User struct {
	LineUserID string            `json:"lineUserId"`
	CreatedAt  time.Time         `json:"createdAt"`
	Items      []InformationItem `json:"informationItems,omitempty"`
}
