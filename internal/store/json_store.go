package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kurotych/fluckybackup/internal/model"
)

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a duplicate entity.
	ErrAlreadyExists = errors.New("already exists")
)

// FileName is the history file inside the config directory.
const FileName = "deliveries.json"

// data represents the JSON file structure.
type data struct {
	Deliveries []model.Delivery `json:"deliveries"`
}

// JSONStore implements Store using JSON file persistence.
type JSONStore struct {
	mu    sync.RWMutex
	path  string
	limit int
	data  *data
}

// NewJSONStore creates a new JSON file-based store keeping at most limit
// deliveries.
func NewJSONStore(configDir string, limit int) (*JSONStore, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &JSONStore{
		path:  filepath.Join(configDir, FileName),
		limit: limit,
		data: &data{
			Deliveries: []model.Delivery{},
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(s.path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// load reads data from the JSON file.
func (s *JSONStore) load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, s.data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.trim()
	return nil
}

// save writes data to the JSON file.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, content, 0600)
}

// trim drops the oldest deliveries beyond the limit.
func (s *JSONStore) trim() {
	if s.limit > 0 && len(s.data.Deliveries) > s.limit {
		s.data.Deliveries = s.data.Deliveries[len(s.data.Deliveries)-s.limit:]
	}
}

// Close is a no-op; every mutation is saved immediately.
func (s *JSONStore) Close() error {
	return nil
}

// Record appends a delivery.
func (s *JSONStore) Record(_ context.Context, d *model.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.Deliveries {
		if existing.ID == d.ID {
			return ErrAlreadyExists
		}
	}

	s.data.Deliveries = append(s.data.Deliveries, *d)
	s.trim()
	return s.save()
}

// List returns deliveries sorted by CompletedAt descending.
func (s *JSONStore) List(_ context.Context, limit int) ([]model.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Delivery, len(s.data.Deliveries))
	copy(result, s.data.Deliveries)

	// Stable so records completed in the same second keep insertion order,
	// then reversed below for newest first.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CompletedAt < result[j].CompletedAt
	})
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Get retrieves a delivery by ID.
func (s *JSONStore) Get(_ context.Context, id string) (*model.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Deliveries {
		if s.data.Deliveries[i].ID == id {
			d := s.data.Deliveries[i]
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

// Clear removes all deliveries.
func (s *JSONStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Deliveries = []model.Delivery{}
	return s.save()
}
