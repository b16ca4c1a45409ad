// Package memory provides the default in-memory deal store. A single RWMutex
// guards the map; Update holds the write lock across the mutation closure so
// concurrent transitions on the same deal serialize instead of racing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riftlabs/riftotc/internal/deal"
	"github.com/riftlabs/riftotc/internal/models"
)

// Store is an in-memory implementation of deal.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string]*models.Deal // keyed by deal id
}

// NewStore creates an empty in-memory deal store.
func NewStore() *Store {
	return &Store{data: make(map[string]*models.Deal)}
}

// Insert adds a new deal. A duplicate id is treated as invalid input.
func (s *Store) Insert(_ context.Context, d *models.Deal) error {
	if d == nil || d.ID == "" {
		return deal.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[d.ID]; exists {
		return deal.ErrInvalidInput
	}

	// Store a copy to prevent external mutation.
	dealCopy := *d
	s.data[d.ID] = &dealCopy
	return nil
}

// Get retrieves a deal by id. Returns deal.ErrNotFound if it does not exist.
func (s *Store) Get(_ context.Context, id string) (*models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.data[id]
	if !exists {
		return nil, deal.ErrNotFound
	}

	dealCopy := *d
	return &dealCopy, nil
}

// List returns deals newest-first, optionally filtered by status.
func (s *Store) List(_ context.Context, status string) ([]*models.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Deal, 0, len(s.data))
	for _, d := range s.data {
		if status != "" && d.Status != status {
			continue
		}
		dealCopy := *d
		result = append(result, &dealCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Update applies mutate to the stored deal under the write lock. The closure
// sees a copy; the copy replaces the stored record only when mutate returns
// nil, so a failed transition leaves the deal untouched.
func (s *Store) Update(_ context.Context, id string, mutate func(*models.Deal) error) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.data[id]
	if !exists {
		return nil, deal.ErrNotFound
	}

	working := *stored
	if err := mutate(&working); err != nil {
		return nil, err
	}

	s.data[id] = &working
	result := working
	return &result, nil
}
