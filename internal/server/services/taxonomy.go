package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

// TaxonomyService manages the per-user project and tag reference lists.
// Creates are idempotent by case-insensitive name; deletes cascade to the
// back-references stored on observations.
type TaxonomyService struct {
	store dataset.Store
}

func NewTaxonomyService(store dataset.Store) *TaxonomyService {
	return &TaxonomyService{store: store}
}

func (s *TaxonomyService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	items := []models.Project{}
	for _, p := range d.Projects {
		if p.UserID == userID {
			items = append(items, p)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[j].UpdatedAt.Before(items[i].UpdatedAt)
	})
	return items, nil
}

func (s *TaxonomyService) CreateProject(ctx context.Context, userID, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("name is required", "name")
	}

	var result models.Project

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		for _, p := range d.Projects {
			if p.UserID == userID && strings.EqualFold(p.Name, name) {
				result = p
				return nil
			}
		}
		now := time.Now().UTC()
		result = models.Project{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Projects = append(d.Projects, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteProject removes the project and clears projectId on every
// observation of the user that referenced it, stamping their updatedAt.
func (s *TaxonomyService) DeleteProject(ctx context.Context, userID, id string) error {
	return s.store.Update(ctx, func(d *models.Dataset) error {
		idx := -1
		for i, p := range d.Projects {
			if p.UserID == userID && p.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.NewNotFoundError("Project not found")
		}
		d.Projects = append(d.Projects[:idx], d.Projects[idx+1:]...)

		now := time.Now().UTC()
		for i := range d.Observations {
			o := &d.Observations[i]
			if o.UserID == userID && o.ProjectID != nil && *o.ProjectID == id {
				o.ProjectID = nil
				o.UpdatedAt = now
			}
		}
		return nil
	})
}

func (s *TaxonomyService) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	items := []models.Tag{}
	for _, t := range d.Tags {
		if t.UserID == userID {
			items = append(items, t)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[j].UpdatedAt.Before(items[i].UpdatedAt)
	})
	return items, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, userID, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("name is required", "name")
	}

	var result models.Tag

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		for _, t := range d.Tags {
			if t.UserID == userID && strings.EqualFold(t.Name, name) {
				result = t
				return nil
			}
		}
		now := time.Now().UTC()
		result = models.Tag{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		d.Tags = append(d.Tags, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteTag removes the tag and strips its name from the tags list of the
// user's observations. Every observation of the user gets its updatedAt
// stamped, whether it referenced the tag or not.
func (s *TaxonomyService) DeleteTag(ctx context.Context, userID, id string) error {
	return s.store.Update(ctx, func(d *models.Dataset) error {
		idx := -1
		for i, t := range d.Tags {
			if t.UserID == userID && t.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.NewNotFoundError("Tag not found")
		}
		name := d.Tags[idx].Name
		d.Tags = append(d.Tags[:idx], d.Tags[idx+1:]...)

		now := time.Now().UTC()
		for i := range d.Observations {
			o := &d.Observations[i]
			if o.UserID != userID {
				continue
			}
			kept := o.Tags[:0]
			for _, tag := range o.Tags {
				if tag != name {
					kept = append(kept, tag)
				}
			}
			o.Tags = kept
			o.UpdatedAt = now
		}
		return nil
	})
}
