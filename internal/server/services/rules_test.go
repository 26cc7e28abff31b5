package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

func strPtr(s string) *string { return &s }

func statusPtr(s models.ObservationStatus) *models.ObservationStatus { return &s }

func confidencePtr(c models.Confidence) *models.Confidence { return &c }

func TestCanTransition(t *testing.T) {
	statuses := []models.ObservationStatus{models.StatusDraft, models.StatusActive, models.StatusArchived}

	allowed := map[[2]models.ObservationStatus]bool{
		{models.StatusDraft, models.StatusActive}:    true,
		{models.StatusActive, models.StatusArchived}: true,
		{models.StatusArchived, models.StatusActive}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := from == to || allowed[[2]models.ObservationStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestInvalidEnumFields(t *testing.T) {
	tests := []struct {
		name  string
		patch models.ObservationInput
		want  []string
	}{
		{"empty patch", models.ObservationInput{}, []string{}},
		{"known values", models.ObservationInput{
			Status:     statusPtr(models.StatusArchived),
			Confidence: confidencePtr(models.ConfidenceHigh),
		}, []string{}},
		{"unknown status", models.ObservationInput{
			Status: statusPtr("Published"),
		}, []string{"status"}},
		{"unknown confidence", models.ObservationInput{
			Confidence: confidencePtr("certain"),
		}, []string{"confidence"}},
		{"lowercase variant is not accepted", models.ObservationInput{
			Status: statusPtr("draft"),
		}, []string{"status"}},
		{"both unknown", models.ObservationInput{
			Status:     statusPtr(""),
			Confidence: confidencePtr("?"),
		}, []string{"status", "confidence"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvalidEnumFields(tt.patch))
		})
	}
}

func TestValidateByStatus(t *testing.T) {
	t.Run("draft accepts anything", func(t *testing.T) {
		o := models.Observation{Status: models.StatusDraft}
		assert.Empty(t, ValidateByStatus(o))
	})

	t.Run("active requires all fields", func(t *testing.T) {
		o := models.Observation{Status: models.StatusActive}
		assert.Equal(t, []string{"title", "observation", "context", "interpretation", "nextAction"}, ValidateByStatus(o))
	})

	t.Run("whitespace counts as missing", func(t *testing.T) {
		o := models.Observation{
			Status:         models.StatusArchived,
			Title:          "  ",
			Observation:    "seen",
			Context:        []models.ContextItem{{Key: "where", Value: "prod"}},
			Interpretation: "\t",
			NextAction:     "follow up",
		}
		assert.Equal(t, []string{"title", "interpretation"}, ValidateByStatus(o))
	})

	t.Run("complete active passes", func(t *testing.T) {
		o := models.Observation{
			Status:         models.StatusActive,
			Title:          "t",
			Observation:    "o",
			Context:        []models.ContextItem{{Key: "k", Value: "v"}},
			Interpretation: "i",
			NextAction:     "n",
		}
		assert.Empty(t, ValidateByStatus(o))
	})
}

func TestMergeObservation_NewRecordDefaults(t *testing.T) {
	now := time.Now().UTC()
	o := MergeObservation(nil, models.ObservationInput{}, "u1", now)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, "", o.Title)
	assert.Equal(t, models.StatusDraft, o.Status)
	assert.Equal(t, models.ConfidenceMedium, o.Confidence)
	assert.Nil(t, o.ProjectID)
	assert.Equal(t, []models.ContextItem{}, o.Context)
	assert.Equal(t, []string{}, o.Tags)
	assert.Equal(t, []models.Link{}, o.Links)
	assert.Equal(t, []models.Attachment{}, o.Attachments)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.UpdatedAt)
}

func TestMergeObservation_PatchSemantics(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	current := models.Observation{
		ID:             "obs-1",
		UserID:         "u1",
		Title:          "old title",
		Observation:    "old text",
		Context:        []models.ContextItem{{Key: "k", Value: "v"}},
		Interpretation: "old interp",
		NextAction:     "old action",
		Status:         models.StatusActive,
		Confidence:     models.ConfidenceHigh,
		ProjectID:      strPtr("p1"),
		Tags:           []string{"a"},
		Links:          []models.Link{{URL: "https://x"}},
		Attachments:    []models.Attachment{},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("absent fields keep current values", func(t *testing.T) {
		merged := MergeObservation(&current, models.ObservationInput{Title: strPtr("new title")}, "u1", now)

		assert.Equal(t, "obs-1", merged.ID)
		assert.Equal(t, "new title", merged.Title)
		assert.Equal(t, "old text", merged.Observation)
		assert.Equal(t, models.StatusActive, merged.Status)
		assert.Equal(t, created, merged.CreatedAt)
		assert.Equal(t, now, merged.UpdatedAt)
	})

	t.Run("present empty values overwrite", func(t *testing.T) {
		empty := []string{}
		merged := MergeObservation(&current, models.ObservationInput{
			Title: strPtr(""),
			Tags:  &empty,
		}, "u1", now)

		assert.Equal(t, "", merged.Title)
		assert.Equal(t, []string{}, merged.Tags)
	})

	t.Run("resupplying current values is idempotent except updatedAt", func(t *testing.T) {
		tags := append([]string{}, current.Tags...)
		merged := MergeObservation(&current, models.ObservationInput{
			Title:          strPtr(current.Title),
			Observation:    strPtr(current.Observation),
			Interpretation: strPtr(current.Interpretation),
			NextAction:     strPtr(current.NextAction),
			Status:         statusPtr(current.Status),
			Confidence:     confidencePtr(current.Confidence),
			Tags:           &tags,
		}, "u1", now)

		want := current
		want.UpdatedAt = now
		assert.Equal(t, want, merged)
	})

	t.Run("nil slices in merged result become empty", func(t *testing.T) {
		bare := models.Observation{ID: "x", UserID: "u1", Status: models.StatusDraft, Confidence: models.ConfidenceMedium}
		merged := MergeObservation(&bare, models.ObservationInput{}, "u1", now)

		require.NotNil(t, merged.Context)
		require.NotNil(t, merged.Tags)
		require.NotNil(t, merged.Links)
		require.NotNil(t, merged.Attachments)
	})
}
