package entries

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		create table entries (
			id text primary key,
			name_envelope text not null,
			username_envelope text,
			password_envelope text not null,
			url_envelope text,
			notes_envelope text,
			category_id text,
			tags_envelope text,
			is_favorite integer not null default 0,
			created_at integer not null,
			modified_at integer not null,
			last_accessed_at integer not null,
			password_history_envelope text
		)`)
	require.NoError(t, err)
	return db
}

func testRow(id string) *models.EntryRow {
	return &models.EntryRow{
		Id:               id,
		NameEnvelope:     "name-env",
		PasswordEnvelope: "pass-env",
		CreatedAt:        1700000000000,
		ModifiedAt:       1700000000000,
		LastAccessedAt:   1700000000000,
	}
}

func TestSQLiteRepository_InsertAndGetByID(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	row := testRow("a")
	row.UsernameEnvelope = "user-env"
	row.TagsEnvelope = "tags-env"
	row.IsFavorite = true
	require.NoError(t, repo.Insert(ctx, row))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "name-env", got.NameEnvelope)
	assert.Equal(t, "user-env", got.UsernameEnvelope)
	assert.Equal(t, "tags-env", got.TagsEnvelope)
	assert.True(t, got.IsFavorite)

	// optional envelopes come back as empty strings, not sql nulls
	assert.Equal(t, "", got.UrlEnvelope)
	assert.Equal(t, "", got.NotesEnvelope)
	assert.Equal(t, "", got.PasswordHistoryEnvelope)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_GetAllOrdered(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	older := testRow("older")
	older.CreatedAt = 1000
	newer := testRow("newer")
	newer.CreatedAt = 2000
	require.NoError(t, repo.Insert(ctx, newer))
	require.NoError(t, repo.Insert(ctx, older))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "older", got[0].Id)
	assert.Equal(t, "newer", got[1].Id)
}

func TestSQLiteRepository_Update(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	row := testRow("a")
	require.NoError(t, repo.Insert(ctx, row))

	row.PasswordEnvelope = "new-pass-env"
	row.PasswordHistoryEnvelope = "history-env"
	row.ModifiedAt = 1700000001000
	require.NoError(t, repo.Update(ctx, row))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-pass-env", got.PasswordEnvelope)
	assert.Equal(t, "history-env", got.PasswordHistoryEnvelope)
	assert.Equal(t, int64(1700000001000), got.ModifiedAt)

	missing := testRow("missing")
	assert.ErrorIs(t, repo.Update(ctx, missing), common.ErrNotFound)
}

func TestSQLiteRepository_TouchLastAccessed(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRow("a")))
	require.NoError(t, repo.TouchLastAccessed(ctx, "a", 1700000005000))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000005000), got.LastAccessedAt)

	// the rest of the row is untouched
	assert.Equal(t, int64(1700000000000), got.ModifiedAt)

	assert.ErrorIs(t, repo.TouchLastAccessed(ctx, "missing", 1), common.ErrNotFound)
}

func TestSQLiteRepository_DeleteByID(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testRow("a")))
	require.NoError(t, repo.DeleteByID(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteByID(ctx, "a"), common.ErrNotFound)
}
