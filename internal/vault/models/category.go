package models

// Category groups entries. The name is the only protected field; icon,
// color, and ordering are presentation metadata.
type Category struct {
	Id        string
	Name      string
	Icon      string
	Color     string
	SortOrder int

	// IsDefault marks categories seeded at vault creation. They cannot be
	// deleted; the protection is policy in the services layer, not a
	// database constraint.
	IsDefault bool
}

// CategoryRow is the encrypted persisted form of a Category.
type CategoryRow struct {
	Id           string
	NameEnvelope string
	Icon         string
	Color        string
	SortOrder    int
	IsDefault    bool
}

// CategoryResult is the per-row outcome of a batch load: either a decrypted
// category or a corrupt stub that keeps the id visible while the rest of
// the vault stays usable.
type CategoryResult struct {
	Category Category
	Err      error
}

// Corrupt reports whether this row failed to decrypt.
func (r CategoryResult) Corrupt() bool { return r.Err != nil }
