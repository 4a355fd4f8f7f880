package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/vault/codec"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
	"github.com/dmitrijs2005/fortvault/internal/vault/repositories/entries"
	"github.com/dmitrijs2005/fortvault/internal/vault/store"
)

// EntryService provides plaintext entry CRUD over the encrypted store.
// Every secret field is sealed before it reaches a repository and opened
// after it comes back; the service holds the master key only for the
// duration of one call.
type EntryService struct {
	store  *store.Store
	logger logging.Logger
	now    func() time.Time
}

// NewEntryService constructs an EntryService bound to the given store.
func NewEntryService(st *store.Store, logger logging.Logger) *EntryService {
	return &EntryService{store: st, logger: logger, now: time.Now}
}

func (s *EntryService) repo() (entries.Repository, error) {
	db, err := s.store.DB()
	if err != nil {
		return nil, err
	}
	return entries.NewSQLiteRepository(db), nil
}

func (s *EntryService) encryptRow(e *models.Entry, key []byte) (*models.EntryRow, error) {
	row := &models.EntryRow{
		Id:             e.Id,
		CategoryId:     e.CategoryId,
		IsFavorite:     e.IsFavorite,
		CreatedAt:      e.CreatedAt.UnixMilli(),
		ModifiedAt:     e.ModifiedAt.UnixMilli(),
		LastAccessedAt: e.LastAccessedAt.UnixMilli(),
	}

	var err error
	if row.NameEnvelope, err = codec.EncryptString(e.Name, key); err != nil {
		return nil, err
	}
	if row.PasswordEnvelope, err = codec.EncryptString(e.Password, key); err != nil {
		return nil, err
	}
	if e.Username != "" {
		if row.UsernameEnvelope, err = codec.EncryptString(e.Username, key); err != nil {
			return nil, err
		}
	}
	if e.Url != "" {
		if row.UrlEnvelope, err = codec.EncryptString(e.Url, key); err != nil {
			return nil, err
		}
	}
	if e.Notes != "" {
		if row.NotesEnvelope, err = codec.EncryptString(e.Notes, key); err != nil {
			return nil, err
		}
	}

	// Tags and history are sealed as single JSON blobs, one envelope per
	// record.
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	if row.TagsEnvelope, err = codec.EncryptJSON(tags, key); err != nil {
		return nil, err
	}
	history := e.PasswordHistory
	if history == nil {
		history = []models.PasswordHistoryItem{}
	}
	if row.PasswordHistoryEnvelope, err = codec.EncryptJSON(history, key); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *EntryService) decryptRow(row *models.EntryRow, key []byte) (models.Entry, error) {
	e := models.Entry{
		Id:             row.Id,
		CategoryId:     row.CategoryId,
		IsFavorite:     row.IsFavorite,
		CreatedAt:      time.UnixMilli(row.CreatedAt),
		ModifiedAt:     time.UnixMilli(row.ModifiedAt),
		LastAccessedAt: time.UnixMilli(row.LastAccessedAt),
	}

	var err error
	if e.Name, err = codec.DecryptString(row.NameEnvelope, key); err != nil {
		return models.Entry{}, err
	}
	if e.Password, err = codec.DecryptString(row.PasswordEnvelope, key); err != nil {
		return models.Entry{}, err
	}
	if row.UsernameEnvelope != "" {
		if e.Username, err = codec.DecryptString(row.UsernameEnvelope, key); err != nil {
			return models.Entry{}, err
		}
	}
	if row.UrlEnvelope != "" {
		if e.Url, err = codec.DecryptString(row.UrlEnvelope, key); err != nil {
			return models.Entry{}, err
		}
	}
	if row.NotesEnvelope != "" {
		if e.Notes, err = codec.DecryptString(row.NotesEnvelope, key); err != nil {
			return models.Entry{}, err
		}
	}
	if row.TagsEnvelope != "" {
		if err = codec.DecryptJSON(row.TagsEnvelope, key, &e.Tags); err != nil {
			return models.Entry{}, err
		}
	}
	if row.PasswordHistoryEnvelope != "" {
		if err = codec.DecryptJSON(row.PasswordHistoryEnvelope, key, &e.PasswordHistory); err != nil {
			return models.Entry{}, err
		}
	}
	return e, nil
}

// GetAll decrypts every entry row independently. A row that cannot be
// decrypted is surfaced as a corrupt stub with its id intact, and loading
// continues; per-row isolation is intentional, not error suppression.
func (s *EntryService) GetAll(ctx context.Context, key []byte) ([]models.EntryResult, error) {
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	rows, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.EntryResult, 0, len(rows))
	for i := range rows {
		e, err := s.decryptRow(&rows[i], key)
		if err != nil {
			s.logger.Warn(ctx, "failed to decrypt entry", "id", rows[i].Id, "error", err)
			results = append(results, models.EntryResult{
				Entry: models.Entry{Id: rows[i].Id},
				Err:   err,
			})
			continue
		}
		results = append(results, models.EntryResult{Entry: e})
	}
	return results, nil
}

// GetByID decrypts a single entry.
func (s *EntryService) GetByID(ctx context.Context, id string, key []byte) (*models.Entry, error) {
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	row, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := s.decryptRow(row, key)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create validates, encrypts, and inserts a new entry. Name and password
// are mandatory. Timestamps are all set to now and the password history
// starts empty.
func (s *EntryService) Create(ctx context.Context, data models.Entry, key []byte) (*models.Entry, error) {
	if data.Name == "" || data.Password == "" {
		return nil, fmt.Errorf("%w: entry name and password are required", common.ErrValidation)
	}
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}

	now := s.now()
	data.Id = uuid.NewString()
	data.CreatedAt = now
	data.ModifiedAt = now
	data.LastAccessedAt = now
	data.PasswordHistory = nil

	row, err := s.encryptRow(&data, key)
	if err != nil {
		return nil, err
	}
	if err := repo.Insert(ctx, row); err != nil {
		return nil, err
	}
	return &data, nil
}

// Update re-encrypts all fields from the supplied plaintext entry and
// overwrites the row keyed by its id, stamping modified_at. The service is
// agnostic to what changed: appending a password-history record when the
// password changed is the caller's responsibility (Entry.RecordPasswordChange).
func (s *EntryService) Update(ctx context.Context, e models.Entry, key []byte) error {
	if e.Name == "" || e.Password == "" {
		return fmt.Errorf("%w: entry name and password are required", common.ErrValidation)
	}
	repo, err := s.repo()
	if err != nil {
		return err
	}

	e.ModifiedAt = s.now()
	row, err := s.encryptRow(&e, key)
	if err != nil {
		return err
	}
	return repo.Update(ctx, row)
}

// TouchLastAccessed stamps last_accessed_at for an entry that was just
// viewed, without re-encrypting anything.
func (s *EntryService) TouchLastAccessed(ctx context.Context, id string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.TouchLastAccessed(ctx, id, s.now().UnixMilli())
}

// Delete hard-deletes an entry by id.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.DeleteByID(ctx, id)
}

// ExportPlaintext returns the full decrypted entry set for bulk export.
// The result is unencrypted at rest once written out; callers must obtain
// explicit user acknowledgement before invoking it. Corrupt rows are
// skipped with a warning rather than aborting the export.
func (s *EntryService) ExportPlaintext(ctx context.Context, key []byte) ([]models.Entry, error) {
	results, err := s.GetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	exported := make([]models.Entry, 0, len(results))
	for _, r := range results {
		if r.Corrupt() {
			s.logger.Warn(ctx, "skipping corrupt entry in export", "id", r.Entry.Id)
			continue
		}
		exported = append(exported, r.Entry)
	}
	return exported, nil
}

// Filter performs case-insensitive substring filtering over name, username,
// and url, in memory. Search never reaches the encrypted store: ciphertext
// cannot be searched without decryption.
func Filter(list []models.Entry, query string) []models.Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	var matched []models.Entry
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name), query) ||
			strings.Contains(strings.ToLower(e.Username), query) ||
			strings.Contains(strings.ToLower(e.Url), query) {
			matched = append(matched, e)
		}
	}
	return matched
}
