// Package models defines the persisted entities of the observation log.
// All ids are opaque strings generated at creation time.
package models

import "time"

// User is identified by its normalized email address and is created on the
// first successful code verification. Users are never deleted.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
