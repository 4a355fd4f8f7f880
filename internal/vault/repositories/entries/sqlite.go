package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/dbx"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

const entryColumns = `id, name_envelope, username_envelope, password_envelope,
	url_envelope, notes_envelope, category_id, tags_envelope, is_favorite,
	created_at, modified_at, last_accessed_at, password_history_envelope`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanEntryRow(scan func(dest ...any) error) (*models.EntryRow, error) {
	row := &models.EntryRow{}
	var username, url, notes, categoryId, tags, history sql.NullString
	err := scan(&row.Id, &row.NameEnvelope, &username, &row.PasswordEnvelope,
		&url, &notes, &categoryId, &tags, &row.IsFavorite,
		&row.CreatedAt, &row.ModifiedAt, &row.LastAccessedAt, &history)
	if err != nil {
		return nil, err
	}
	row.UsernameEnvelope = username.String
	row.UrlEnvelope = url.String
	row.NotesEnvelope = notes.String
	row.CategoryId = categoryId.String
	row.TagsEnvelope = tags.String
	row.PasswordHistoryEnvelope = history.String
	return row, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.EntryRow, error) {
	query := `select ` + entryColumns + ` from entries order by created_at asc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.EntryRow
	for rows.Next() {
		row, err := scanEntryRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		result = append(result, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.EntryRow, error) {
	query := `select ` + entryColumns + ` from entries where id = ?`
	row, err := scanEntryRow(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select entry: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, row *models.EntryRow) error {
	query := `insert into entries (` + entryColumns + `)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.Id, row.NameEnvelope, nullable(row.UsernameEnvelope), row.PasswordEnvelope,
		nullable(row.UrlEnvelope), nullable(row.NotesEnvelope), nullable(row.CategoryId),
		nullable(row.TagsEnvelope), row.IsFavorite,
		row.CreatedAt, row.ModifiedAt, row.LastAccessedAt,
		nullable(row.PasswordHistoryEnvelope))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, row *models.EntryRow) error {
	query := `update entries set
		name_envelope = ?, username_envelope = ?, password_envelope = ?,
		url_envelope = ?, notes_envelope = ?, category_id = ?, tags_envelope = ?,
		is_favorite = ?, modified_at = ?, password_history_envelope = ?
		where id = ?`
	res, err := r.db.ExecContext(ctx, query,
		row.NameEnvelope, nullable(row.UsernameEnvelope), row.PasswordEnvelope,
		nullable(row.UrlEnvelope), nullable(row.NotesEnvelope), nullable(row.CategoryId),
		nullable(row.TagsEnvelope), row.IsFavorite, row.ModifiedAt,
		nullable(row.PasswordHistoryEnvelope), row.Id)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
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

func (r *SQLiteRepository) TouchLastAccessed(ctx context.Context, id string, at int64) error {
	res, err := r.db.ExecContext(ctx, `update entries set last_accessed_at = ? where id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch entry: %w", err)
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

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from entries where id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
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
