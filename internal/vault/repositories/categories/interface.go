package categories

import (
	"context"

	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

// Repository describes row-level operations for categories. Envelope
// columns are opaque here; encryption and decryption happen one layer up.
type Repository interface {
	// GetAll returns every category row ordered by sort_order.
	GetAll(ctx context.Context) ([]models.CategoryRow, error)

	// Count returns the number of category rows. The services layer uses it
	// to drive idempotent default seeding.
	Count(ctx context.Context) (int, error)

	// Insert stores a new category row.
	Insert(ctx context.Context, row *models.CategoryRow) error

	// GetByID returns a single category row, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.CategoryRow, error)

	// DeleteByID hard-deletes a category row, or returns common.ErrNotFound
	// when no row matched.
	DeleteByID(ctx context.Context, id string) error
}
