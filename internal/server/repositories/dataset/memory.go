package dataset

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// MemoryStore holds the dataset in process memory. Used by tests and as a
// throwaway dev backend.
type MemoryStore struct {
	mu   sync.Mutex
	data *models.Dataset
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: models.NewDataset()}
}

func (s *MemoryStore) Load(ctx context.Context) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *MemoryStore) Update(ctx context.Context, fn func(*models.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Work on a copy so a failing fn leaves the stored state untouched.
	next, err := s.data.Clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
