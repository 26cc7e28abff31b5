package models

import "time"

// ObservationStatus is the lifecycle state of an observation.
type ObservationStatus string

const (
	StatusDraft    ObservationStatus = "Draft"
	StatusActive   ObservationStatus = "Active"
	StatusArchived ObservationStatus = "Archived"
)

func (s ObservationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived:
		return true
	}
	return false
}

// Confidence expresses how certain the author is about an observation.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// ContextItem is one ordered key/value pair of an observation's context.
type ContextItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Link is an external reference attached to an observation.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Observation is a structured note with fact/interpretation/next-action
// separation, owned by exactly one user.
type Observation struct {
	ID             string            `json:"id"`
	UserID         string            `json:"userId"`
	Title          string            `json:"title"`
	Observation    string            `json:"observation"`
	Context        []ContextItem     `json:"context"`
	Interpretation string            `json:"interpretation"`
	NextAction     string            `json:"nextAction"`
	Status         ObservationStatus `json:"status"`
	Confidence     Confidence        `json:"confidence"`
	ProjectID      *string           `json:"projectId"`
	Tags           []string          `json:"tags"`
	Links          []Link            `json:"links"`
	Attachments    []Attachment      `json:"attachments"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ObservationInput is the patch payload for creating or updating an
// observation. Every field is optional-of-T: nil means "keep the current
// value" (or the type default for a new record). A present value overwrites,
// including an empty string or empty slice.
type ObservationInput struct {
	Title          *string            `json:"title"`
	Observation    *string            `json:"observation"`
	Context        *[]ContextItem     `json:"context"`
	Interpretation *string            `json:"interpretation"`
	NextAction     *string            `json:"nextAction"`
	Status         *ObservationStatus `json:"status"`
	Confidence     *Confidence        `json:"confidence"`
	ProjectID      *string            `json:"projectId"`
	Tags           *[]string          `json:"tags"`
	Links          *[]Link            `json:"links"`
	Attachments    *[]Attachment      `json:"attachments"`
}
