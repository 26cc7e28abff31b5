package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/logging"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/blob"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

// ObservationService owns the observation lifecycle: merge-on-update
// writes guarded by the status state machine, filtered listing, and
// deletes that cascade to attachment files.
type ObservationService struct {
	store dataset.Store
	blobs blob.Store
	log   logging.Logger
}

func NewObservationService(store dataset.Store, blobs blob.Store, log logging.Logger) *ObservationService {
	return &ObservationService{store: store, blobs: blobs, log: log}
}

func (s *ObservationService) Get(ctx context.Context, userID, id string) (*models.Observation, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findObservation(d, userID, id)
}

func findObservation(d *models.Dataset, userID, id string) (*models.Observation, error) {
	for _, o := range d.Observations {
		if o.UserID == userID && o.ID == id {
			item := o
			return &item, nil
		}
	}
	return nil, common.NewNotFoundError("Observation not found")
}

// List returns one page of the user's observations after filtering and
// sorting.
func (s *ObservationService) List(ctx context.Context, userID string, f ObservationFilters, page, perPage int) ([]models.Observation, PageMeta, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, PageMeta{}, err
	}
	mine := []models.Observation{}
	for _, o := range d.Observations {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	items, meta := Paginate(FilterObservations(mine, f), page, perPage)
	return items, meta, nil
}

// Create validates the payload against its (defaulted) status and persists
// a fresh record.
func (s *ObservationService) Create(ctx context.Context, userID string, input models.ObservationInput) (*models.Observation, error) {
	if invalid := InvalidEnumFields(input); len(invalid) > 0 {
		return nil, common.NewValidationError("Invalid field value", invalid...)
	}

	next := MergeObservation(nil, input, userID, time.Now().UTC())

	if missing := ValidateByStatus(next); len(missing) > 0 {
		return nil, common.NewValidationError("Required fields are missing", missing...)
	}

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		d.Observations = append(d.Observations, next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &next, nil
}

// Update applies a patch to an existing observation. The status transition
// is checked against the current record before any field is merged, and
// the merged result is re-validated, so a patch cannot leave an Active or
// Archived record with required fields empty even if it never touched
// them.
func (s *ObservationService) Update(ctx context.Context, userID, id string, input models.ObservationInput) (*models.Observation, error) {
	if invalid := InvalidEnumFields(input); len(invalid) > 0 {
		return nil, common.NewValidationError("Invalid field value", invalid...)
	}

	var merged models.Observation

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		current, err := findObservation(d, userID, id)
		if err != nil {
			return err
		}

		nextStatus := current.Status
		if input.Status != nil {
			nextStatus = *input.Status
		}
		if !CanTransition(current.Status, nextStatus) {
			return common.NewInvalidTransitionError(
				fmt.Sprintf("Cannot transition from %s to %s", current.Status, nextStatus))
		}

		merged = MergeObservation(current, input, userID, time.Now().UTC())
		if missing := ValidateByStatus(merged); len(missing) > 0 {
			return common.NewValidationError("Required fields are missing", missing...)
		}

		replaceObservation(d, merged)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &merged, nil
}

func replaceObservation(d *models.Dataset, item models.Observation) {
	for i := range d.Observations {
		if d.Observations[i].UserID == item.UserID && d.Observations[i].ID == item.ID {
			d.Observations[i] = item
			return
		}
	}
	d.Observations = append(d.Observations, item)
}

// Delete removes the observation and all of its attachment files.
// Blob delete failures are logged and do not fail the request.
func (s *ObservationService) Delete(ctx context.Context, userID, id string) error {
	var attachments []models.Attachment

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		idx := -1
		for i, o := range d.Observations {
			if o.UserID == userID && o.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.NewNotFoundError("Observation not found")
		}
		attachments = d.Observations[idx].Attachments
		d.Observations = append(d.Observations[:idx], d.Observations[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	for _, a := range attachments {
		if err := s.blobs.Delete(ctx, a.StoragePath); err != nil {
			s.log.Warn(ctx, "error removing attachment file", "path", a.StoragePath, "error", err)
		}
	}
	return nil
}
