package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/server/models"
	"github.com/dmitrijs2005/obslog/internal/server/repositories/dataset"
)

const defaultTimezone = "Asia/Tokyo"

// UserService is the upsert-by-email identity store. Users are created on
// the first successful code verification and never deleted.
type UserService struct {
	store dataset.Store
}

func NewUserService(store dataset.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	d, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range d.Users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, common.NewNotFoundError("User not found")
}

// UpsertByEmail returns the user for the normalized email, creating one on
// first sight. For an existing user, non-empty displayName/timezone values
// overwrite; for a new user the defaults are the email itself and
// Asia/Tokyo.
func (s *UserService) UpsertByEmail(ctx context.Context, email, displayName, timezone string) (*models.User, error) {
	email = NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)
	timezone = strings.TrimSpace(timezone)
	now := time.Now().UTC()

	var result models.User

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		for i := range d.Users {
			if d.Users[i].Email != email {
				continue
			}
			if displayName != "" {
				d.Users[i].DisplayName = displayName
			}
			if timezone != "" {
				d.Users[i].Timezone = timezone
			}
			d.Users[i].UpdatedAt = now
			result = d.Users[i]
			return nil
		}

		created := models.User{
			ID:          uuid.NewString(),
			Email:       email,
			DisplayName: displayName,
			Timezone:    timezone,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if created.DisplayName == "" {
			created.DisplayName = email
		}
		if created.Timezone == "" {
			created.Timezone = defaultTimezone
		}
		d.Users = append(d.Users, created)
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateProfile sets the display name and timezone. An empty timezone
// keeps the current one.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName, timezone string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	timezone = strings.TrimSpace(timezone)
	if displayName == "" {
		return nil, common.NewValidationError("Display name is required", "displayName")
	}

	var result *models.User

	err := s.store.Update(ctx, func(d *models.Dataset) error {
		for i := range d.Users {
			if d.Users[i].ID != userID {
				continue
			}
			d.Users[i].DisplayName = displayName
			if timezone != "" {
				d.Users[i].Timezone = timezone
			}
			d.Users[i].UpdatedAt = time.Now().UTC()
			u := d.Users[i]
			result = &u
			return nil
		}
		return common.NewNotFoundError("User not found")
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
