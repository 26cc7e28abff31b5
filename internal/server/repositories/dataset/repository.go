// Package dataset implements the persistence port: the whole application
// state is read and written as one models.Dataset value. Backends must
// serialize Update calls so concurrent read-modify-write sequences cannot
// clobber each other.
package dataset

import (
	"context"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// Store is the persistence port for the dataset.
type Store interface {
	// Load returns a snapshot of the current dataset. Mutating the snapshot
	// has no effect on the persisted state.
	Load(ctx context.Context) (*models.Dataset, error)

	// Update runs fn against the current dataset and persists the result.
	// Calls are serialized: at most one fn runs at a time per store. If fn
	// returns an error nothing is persisted and the error is returned as-is.
	Update(ctx context.Context, fn func(*models.Dataset) error) error

	Close() error
}
