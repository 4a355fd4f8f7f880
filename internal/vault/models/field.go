// Package models defines the vault's domain objects, their encrypted row
// counterparts, and the envelope format used for every protected field.
package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
)

// EncryptedField is the authenticated envelope wrapping one protected
// logical field: a fresh 16-byte IV, the ciphertext, and the 16-byte GCM
// tag. No plaintext secret crosses the storage boundary outside one of
// these.
//
// The JSON wire form (base64 byte fields) is a compatibility contract for
// the *_envelope columns; it must not change without a migration path.
type EncryptedField struct {
	IV     []byte `json:"iv"`
	Cipher []byte `json:"cipher"`
	Tag    []byte `json:"tag"`
}

// Marshal renders the envelope in its persisted wire form.
func (f EncryptedField) Marshal() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return string(b), nil
}

// UnmarshalEncryptedField parses a persisted envelope. A malformed column
// is reported as a decryption failure so batch loaders can isolate the row.
func UnmarshalEncryptedField(s string) (EncryptedField, error) {
	var f EncryptedField
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return EncryptedField{}, fmt.Errorf("%w: malformed envelope: %v", common.ErrDecryptionFailed, err)
	}
	return f, nil
}
