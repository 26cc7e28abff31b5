package models

import "time"

// AuthChallenge is a short-lived one-time numeric code proving control of an
// email address. DisplayName/Timezone captured at request time are applied
// to the user only at first creation.
type AuthChallenge struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	DisplayName string    `json:"displayName,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the challenge is no longer valid at now.
func (c AuthChallenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
