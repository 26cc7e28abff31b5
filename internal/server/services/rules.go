package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// CanTransition reports whether an observation may move between the two
// statuses. Self-loops are always allowed; otherwise only
// Draft→Active, Active→Archived and Archived→Active are permitted.
func CanTransition(from, to models.ObservationStatus) bool {
	if from == to {
		return true
	}
	switch {
	case from == models.StatusDraft && to == models.StatusActive:
		return true
	case from == models.StatusActive && to == models.StatusArchived:
		return true
	case from == models.StatusArchived && to == models.StatusActive:
		return true
	}
	return false
}

// MissingRequiredFields returns the names of required fields that are empty
// or whitespace-only, in a fixed order. The context sequence counts as
// missing when it has no entries.
func MissingRequiredFields(o models.Observation) []string {
	missing := []string{}

	if strings.TrimSpace(o.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(o.Observation) == "" {
		missing = append(missing, "observation")
	}
	if len(o.Context) == 0 {
		missing = append(missing, "context")
	}
	if strings.TrimSpace(o.Interpretation) == "" {
		missing = append(missing, "interpretation")
	}
	if strings.TrimSpace(o.NextAction) == "" {
		missing = append(missing, "nextAction")
	}

	return missing
}

// InvalidEnumFields returns the names of patch fields that carry a value
// outside the closed set of variants. A nil field is never invalid.
func InvalidEnumFields(patch models.ObservationInput) []string {
	invalid := []string{}
	if patch.Status != nil && !patch.Status.Valid() {
		invalid = append(invalid, "status")
	}
	if patch.Confidence != nil && !patch.Confidence.Valid() {
		invalid = append(invalid, "confidence")
	}
	return invalid
}

// ValidateByStatus applies the per-status field rules: Draft accepts
// anything, Active and Archived require the full set of fields.
func ValidateByStatus(o models.Observation) []string {
	if o.Status == models.StatusDraft || o.Status == "" {
		return []string{}
	}
	return MissingRequiredFields(o)
}

// MergeObservation builds the next version of an observation from the
// current record and a patch. A nil field in the patch keeps the current
// value, or falls back to the type default when there is no current record.
// A present field overwrites, even when it carries an empty string or an
// empty slice. The id and createdAt survive from current; updatedAt is
// always stamped with now.
func MergeObservation(current *models.Observation, patch models.ObservationInput, userID string, now time.Time) models.Observation {
	next := models.Observation{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      models.StatusDraft,
		Confidence:  models.ConfidenceMedium,
		Context:     []models.ContextItem{},
		Tags:        []string{},
		Links:       []models.Link{},
		Attachments: []models.Attachment{},
		CreatedAt:   now,
	}
	if current != nil {
		next = *current
	}
	next.UpdatedAt = now

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Observation != nil {
		next.Observation = *patch.Observation
	}
	if patch.Context != nil {
		next.Context = *patch.Context
	}
	if patch.Interpretation != nil {
		next.Interpretation = *patch.Interpretation
	}
	if patch.NextAction != nil {
		next.NextAction = *patch.NextAction
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Confidence != nil {
		next.Confidence = *patch.Confidence
	}
	if patch.ProjectID != nil {
		next.ProjectID = patch.ProjectID
	}
	if patch.Tags != nil {
		next.Tags = *patch.Tags
	}
	if patch.Links != nil {
		next.Links = *patch.Links
	}
	if patch.Attachments != nil {
		next.Attachments = *patch.Attachments
	}

	if next.Context == nil {
		next.Context = []models.ContextItem{}
	}
	if next.Tags == nil {
		next.Tags = []string{}
	}
	if next.Links == nil {
		next.Links = []models.Link{}
	}
	if next.Attachments == nil {
		next.Attachments = []models.Attachment{}
	}

	return next
}
