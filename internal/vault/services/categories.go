// Package services implements the record repository: the translation layer
// between plaintext domain objects and encrypted rows. It owns the
// encrypt-on-write / decrypt-on-read pipeline and the default-data
// bootstrap; it borrows the master key per call and never retains it.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/dbx"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/vault/codec"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
	"github.com/dmitrijs2005/fortvault/internal/vault/repositories/categories"
	"github.com/dmitrijs2005/fortvault/internal/vault/store"
)

// defaultCategories is the fixed ordered set seeded into a fresh vault.
// Seeded categories are flagged is_default and protected from deletion.
var defaultCategories = []models.Category{
	{Name: "General", Icon: "folder", Color: "#9E9E9E"},
	{Name: "Social Media", Icon: "share-2", Color: "#2196F3"},
	{Name: "Banking", Icon: "landmark", Color: "#4CAF50"},
	{Name: "Shopping", Icon: "shopping-cart", Color: "#FF9800"},
	{Name: "Work", Icon: "briefcase", Color: "#9C27B0"},
	{Name: "Entertainment", Icon: "play-circle", Color: "#F44336"},
}

// CategoryService provides plaintext category CRUD over the encrypted
// store.
type CategoryService struct {
	store  *store.Store
	logger logging.Logger
}

// NewCategoryService constructs a CategoryService bound to the given store.
func NewCategoryService(st *store.Store, logger logging.Logger) *CategoryService {
	return &CategoryService{store: st, logger: logger}
}

func (s *CategoryService) repo() (categories.Repository, error) {
	db, err := s.store.DB()
	if err != nil {
		return nil, err
	}
	return categories.NewSQLiteRepository(db), nil
}

// GetAll returns all categories ordered by sort order. Each row's name is
// decrypted independently: a row that cannot be decrypted is surfaced as a
// corrupt stub with its id intact, and loading continues.
func (s *CategoryService) GetAll(ctx context.Context, key []byte) ([]models.CategoryResult, error) {
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	rows, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.CategoryResult, 0, len(rows))
	for _, row := range rows {
		name, err := codec.DecryptString(row.NameEnvelope, key)
		if err != nil {
			s.logger.Warn(ctx, "failed to decrypt category", "id", row.Id, "error", err)
			results = append(results, models.CategoryResult{
				Category: models.Category{Id: row.Id, Icon: row.Icon, Color: row.Color,
					SortOrder: row.SortOrder, IsDefault: row.IsDefault},
				Err: err,
			})
			continue
		}
		results = append(results, models.CategoryResult{Category: models.Category{
			Id:        row.Id,
			Name:      name,
			Icon:      row.Icon,
			Color:     row.Color,
			SortOrder: row.SortOrder,
			IsDefault: row.IsDefault,
		}})
	}
	return results, nil
}

// Create encrypts the category name and inserts a new row with a fresh id.
// On first use it bootstraps the default category set; the seeding is
// idempotent and driven by the vault's current row count.
func (s *CategoryService) Create(ctx context.Context, data models.Category, key []byte) (*models.Category, error) {
	if data.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", common.ErrValidation)
	}
	if err := s.EnsureDefaults(ctx, key); err != nil {
		return nil, err
	}
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, repo, data, key)
}

func (s *CategoryService) insert(ctx context.Context, repo categories.Repository, data models.Category, key []byte) (*models.Category, error) {
	data.Id = uuid.NewString()
	if data.Icon == "" {
		data.Icon = "folder"
	}
	if data.Color == "" {
		data.Color = "#808080"
	}

	envelope, err := codec.EncryptString(data.Name, key)
	if err != nil {
		return nil, err
	}

	row := &models.CategoryRow{
		Id:           data.Id,
		NameEnvelope: envelope,
		Icon:         data.Icon,
		Color:        data.Color,
		SortOrder:    data.SortOrder,
		IsDefault:    data.IsDefault,
	}
	if err := repo.Insert(ctx, row); err != nil {
		return nil, err
	}
	return &data, nil
}

// EnsureDefaults seeds the default categories exactly once. It is a no-op
// whenever any category row already exists, so retries are safe. The count
// check and the inserts run in one transaction: a crash mid-seed leaves no
// partial set behind.
func (s *CategoryService) EnsureDefaults(ctx context.Context, key []byte) error {
	db, err := s.store.DB()
	if err != nil {
		return err
	}
	seeded := false
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := categories.NewSQLiteRepository(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for i, def := range defaultCategories {
			def.SortOrder = i
			def.IsDefault = true
			if _, err := s.insert(ctx, repo, def, key); err != nil {
				return fmt.Errorf("failed to seed default category %q: %w", def.Name, err)
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return err
	}
	if seeded {
		s.logger.Info(ctx, "seeded default categories", "count", len(defaultCategories))
	}
	return nil
}

// Delete hard-deletes a category by id. Default categories are protected by
// policy: the call is rejected without touching the store. Entries keep
// their category_id; referential integrity is not enforced by the schema.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	row, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row.IsDefault {
		return common.ErrDefaultCategoryProtected
	}
	return repo.DeleteByID(ctx, id)
}
