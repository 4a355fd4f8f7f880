package models

import "time"

// Entry is a decrypted vault record as the rest of the application sees it.
// Name and Password are mandatory; the other secret fields are optional.
type Entry struct {
	Id         string
	Name       string
	Username   string
	Password   string
	Url        string
	Notes      string
	CategoryId string
	Tags       []string
	IsFavorite bool

	CreatedAt      time.Time
	ModifiedAt     time.Time
	LastAccessedAt time.Time

	// PasswordHistory is append-only: one item per password change,
	// carrying the previous value. It is never pruned automatically.
	PasswordHistory []PasswordHistoryItem
}

// PasswordHistoryItem records a superseded password and when it was
// replaced.
type PasswordHistoryItem struct {
	Password  string    `json:"password"`
	ChangedAt time.Time `json:"changed_at"`
}

// RecordPasswordChange appends exactly one history item carrying the
// previous password value. Callers invoke it before persisting an update
// whose password differs from the stored one; the repository layer itself
// is agnostic to what changed.
func (e *Entry) RecordPasswordChange(previous string, at time.Time) {
	e.PasswordHistory = append(e.PasswordHistory, PasswordHistoryItem{
		Password:  previous,
		ChangedAt: at,
	})
}

// EntryRow is the encrypted persisted form of an Entry. Envelope columns
// hold the JSON {iv, cipher, tag} wire form; optional fields are empty
// strings when absent. Timestamps are unix milliseconds.
type EntryRow struct {
	Id                      string
	NameEnvelope            string
	UsernameEnvelope        string
	PasswordEnvelope        string
	UrlEnvelope             string
	NotesEnvelope           string
	CategoryId              string
	TagsEnvelope            string
	IsFavorite              bool
	CreatedAt               int64
	ModifiedAt              int64
	LastAccessedAt          int64
	PasswordHistoryEnvelope string
}

// EntryResult is the per-row outcome of a batch load: either a decrypted
// entry or a corrupt stub with its id intact. A single undecryptable row
// never aborts loading the rest of the vault.
type EntryResult struct {
	Entry Entry
	Err   error
}

// Corrupt reports whether this row failed to decrypt.
func (r EntryResult) Corrupt() bool { return r.Err != nil }
