package entries

import (
	"context"

	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

// Repository describes row-level CRUD for encrypted entry rows. All
// *_envelope columns are opaque sealed envelopes at this layer.
type Repository interface {
	// GetAll returns every entry row, ordered by created_at.
	GetAll(ctx context.Context) ([]models.EntryRow, error)

	// GetByID returns a single entry row, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.EntryRow, error)

	// Insert stores a new entry row.
	Insert(ctx context.Context, row *models.EntryRow) error

	// Update overwrites the row keyed by row.Id, or returns
	// common.ErrNotFound when no row matched.
	Update(ctx context.Context, row *models.EntryRow) error

	// TouchLastAccessed stamps last_accessed_at without rewriting envelopes.
	TouchLastAccessed(ctx context.Context, id string, at int64) error

	// DeleteByID hard-deletes an entry row, or returns common.ErrNotFound
	// when no row matched. There is no soft delete or tombstone.
	DeleteByID(ctx context.Context, id string) error
}
