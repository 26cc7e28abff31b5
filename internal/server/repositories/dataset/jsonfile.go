package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/obslog/internal/filex"
	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// JSONFileStore keeps the dataset in a single pretty-printed JSON file.
// This is the default backend. A mutex serializes Update sequences; Load
// always re-reads the file so external edits are picked up.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{path: path}
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return s, nil
}

// ensure seeds an empty dataset file on first use.
func (s *JSONFileStore) ensure() error {
	if err := filex.EnsureParentDir(s.path); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	return s.write(models.NewDataset())
}

func (s *JSONFileStore) read() (*models.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	d := &models.Dataset{}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	d.Normalize()
	return d, nil
}

func (s *JSONFileStore) write(d *models.Dataset) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONFileStore) Load(ctx context.Context) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *JSONFileStore) Update(ctx context.Context, fn func(*models.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	return s.write(d)
}

func (s *JSONFileStore) Close() error {
	return nil
}
