package deal

import (
	"context"

	"github.com/riftlabs/riftotc/internal/models"
)

// Store persists deals. Update must apply the mutation atomically per deal
// id: no two concurrent Update calls for the same id may both observe the
// pre-mutation record. Implementations return ErrNotFound for unknown ids.
type Store interface {
	// Insert adds a new deal.
	Insert(ctx context.Context, d *models.Deal) error

	// Get retrieves a deal by id.
	Get(ctx context.Context, id string) (*models.Deal, error)

	// List returns deals newest-first, optionally filtered by status
	// (empty string means all).
	List(ctx context.Context, status string) ([]*models.Deal, error)

	// Update loads the deal, applies mutate under per-id mutual exclusion
	// and persists the result. If mutate returns an error nothing is
	// written and the error is passed through.
	Update(ctx context.Context, id string, mutate func(*models.Deal) error) (*models.Deal, error)
}
