package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/dbx"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.CategoryRow, error) {
	query := `select id, name_envelope, icon, color, sort_order, is_default
		from categories order by sort_order asc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []models.CategoryRow
	for rows.Next() {
		var row models.CategoryRow
		if err := rows.Scan(&row.Id, &row.NameEnvelope, &row.Icon, &row.Color, &row.SortOrder, &row.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `select count(*) from categories`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, row *models.CategoryRow) error {
	query := `insert into categories (id, name_envelope, icon, color, sort_order, is_default)
		values (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.Id, row.NameEnvelope, row.Icon, row.Color, row.SortOrder, row.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.CategoryRow, error) {
	query := `select id, name_envelope, icon, color, sort_order, is_default
		from categories where id = ?`
	row := &models.CategoryRow{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&row.Id, &row.NameEnvelope, &row.Icon, &row.Color, &row.SortOrder, &row.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select category: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from categories where id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
