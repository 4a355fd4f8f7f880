// Package codec converts between plaintext field values and their
// persisted EncryptedField envelopes. It is the only place where the wire
// shape of an envelope is produced or consumed; repositories treat the
// serialized form as opaque text.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/cryptox"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
)

// EncryptField seals one plaintext string into an envelope with a fresh IV.
func EncryptField(plaintext string, key []byte) (models.EncryptedField, error) {
	iv, cipher, tag, err := cryptox.Seal([]byte(plaintext), key)
	if err != nil {
		return models.EncryptedField{}, err
	}
	return models.EncryptedField{IV: iv, Cipher: cipher, Tag: tag}, nil
}

// DecryptField opens an envelope back into its plaintext string. Wrong key,
// corrupted ciphertext, or a tag mismatch yields ErrDecryptionFailed, never
// garbage output.
func DecryptField(f models.EncryptedField, key []byte) (string, error) {
	plaintext, err := cryptox.Open(f.IV, f.Cipher, f.Tag, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptString seals plaintext and returns the persisted wire form in one
// step. Empty optional fields are the caller's concern; the codec encrypts
// whatever it is given.
func EncryptString(plaintext string, key []byte) (string, error) {
	f, err := EncryptField(plaintext, key)
	if err != nil {
		return "", err
	}
	return f.Marshal()
}

// DecryptString parses a persisted envelope and opens it.
func DecryptString(envelope string, key []byte) (string, error) {
	f, err := models.UnmarshalEncryptedField(envelope)
	if err != nil {
		return "", err
	}
	return DecryptField(f, key)
}

// EncryptJSON serializes v to JSON and seals the blob as a single envelope.
// Tags and password history are stored this way: one envelope per record,
// not one per element.
func EncryptJSON(v any, key []byte) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}
	iv, cipher, tag, err := cryptox.Seal(b, key)
	if err != nil {
		return "", err
	}
	return models.EncryptedField{IV: iv, Cipher: cipher, Tag: tag}.Marshal()
}

// DecryptJSON opens a sealed JSON blob and unmarshals it into v.
func DecryptJSON(envelope string, key []byte, v any) error {
	f, err := models.UnmarshalEncryptedField(envelope)
	if err != nil {
		return err
	}
	plaintext, err := cryptox.Open(f.IV, f.Cipher, f.Tag, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", common.ErrDecryptionFailed, err)
	}
	return nil
}
