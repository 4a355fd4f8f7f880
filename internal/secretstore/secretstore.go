// Package secretstore persists the small secrets that live outside the
// relational vault: the master credential (salt + verification hash) and
// the optional biometric-gated key escrow. Items are addressed by an opaque
// name inside one OS-protected keyring service.
package secretstore

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when the named item is absent from the store.
var ErrNotFound = errors.New("secret not found")

// Item names within the keyring service.
const (
	masterCredentialName = "master-credential"
	escrowedKeyName      = "escrowed-key"
)

// SecretStore is the minimal get/set/delete-by-name contract the engine
// requires from whatever OS-level protected facility is available.
type SecretStore interface {
	Get(name string) (string, error)
	Set(name string, value string) error
	Delete(name string) error
}

// Keyring implements SecretStore on the OS keyring (Keychain, libsecret,
// Credential Manager) under a fixed service name.
type Keyring struct {
	service string
}

// NewKeyring returns a Keyring scoped to the given service name.
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

func (k *Keyring) Get(name string) (string, error) {
	value, err := keyring.Get(k.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get failed: %w", err)
	}
	return value, nil
}

func (k *Keyring) Set(name string, value string) error {
	if err := keyring.Set(k.service, name, value); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

func (k *Keyring) Delete(name string) error {
	err := keyring.Delete(k.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

// MasterCredential is the persisted proof-of-passphrase material: the KDF
// salt and a one-way hash of the derived key. Created once at vault setup;
// replaced only on passphrase change. The key itself is never stored here.
type MasterCredential struct {
	Salt             []byte `json:"salt"`
	VerificationHash []byte `json:"verification_hash"`
}

// SaveMasterCredential persists the credential under its well-known name.
func SaveMasterCredential(s SecretStore, cred *MasterCredential) error {
	b, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal master credential: %w", err)
	}
	return s.Set(masterCredentialName, string(b))
}

// LoadMasterCredential retrieves the credential, or ErrNotFound when the
// vault has never been set up.
func LoadMasterCredential(s SecretStore) (*MasterCredential, error) {
	value, err := s.Get(masterCredentialName)
	if err != nil {
		return nil, err
	}
	var cred MasterCredential
	if err := json.Unmarshal([]byte(value), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal master credential: %w", err)
	}
	return &cred, nil
}

// DeleteMasterCredential removes the credential (vault reset).
func DeleteMasterCredential(s SecretStore) error {
	return s.Delete(masterCredentialName)
}

// SaveEscrowedKey stores the master key behind the platform's
// biometric-gated item so a later unlock can skip passphrase re-entry.
func SaveEscrowedKey(s SecretStore, key []byte) error {
	return s.Set(escrowedKeyName, base64.StdEncoding.EncodeToString(key))
}

// LoadEscrowedKey retrieves the escrowed master key, or ErrNotFound when no
// escrow is on file.
func LoadEscrowedKey(s SecretStore) ([]byte, error) {
	value, err := s.Get(escrowedKeyName)
	if err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode escrowed key: %w", err)
	}
	return key, nil
}

// DeleteEscrowedKey removes the escrowed key.
func DeleteEscrowedKey(s SecretStore) error {
	return s.Delete(escrowedKeyName)
}
