// Package session implements the credential manager: master-key derivation
// and verification, the unlock/lock state machine, and the optional
// biometric key escrow. It is the sole owner of the in-memory master key
// and the vault store handle; no key material outlives an unlocked session.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/cryptox"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/secretstore"
	"github.com/dmitrijs2005/fortvault/internal/vault/repositories/metadata"
	"github.com/dmitrijs2005/fortvault/internal/vault/store"
)

// app_metadata keys maintained by the session manager.
const (
	metaCreatedAt      = "vault_created_at"
	metaLastUnlockedAt = "last_unlocked_at"
)

// State is the session lifecycle position.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateSettingUp     State = "setting_up"
	StateLocked        State = "locked"
	StateUnlocking     State = "unlocking"
	StateUnlocked      State = "unlocked"
)

// MinPassphraseLength is the setup policy floor.
const MinPassphraseLength = 12

// Manager drives the session state machine. It is designed for a single
// cooperative caller; it does not serialize concurrent use.
type Manager struct {
	store   *store.Store
	secrets secretstore.SecretStore
	logger  logging.Logger

	state     State
	masterKey []byte
}

// NewManager returns a Manager in the Uninitialized state; call Bootstrap
// to resolve whether a vault exists.
func NewManager(st *store.Store, secrets secretstore.SecretStore, logger logging.Logger) *Manager {
	return &Manager{store: st, secrets: secrets, logger: logger, state: StateUninitialized}
}

// State returns the current lifecycle position.
func (m *Manager) State() State { return m.state }

// Key hands out the in-memory master key for the duration of one repository
// call. Callers must not retain it. Returns ErrNotUnlocked when locked.
func (m *Manager) Key() ([]byte, error) {
	if m.state != StateUnlocked || m.masterKey == nil {
		return nil, common.ErrNotUnlocked
	}
	return m.masterKey, nil
}

// Bootstrap probes the secret store and moves to Locked when a master
// credential exists, or stays Uninitialized (setup required) otherwise.
func (m *Manager) Bootstrap(ctx context.Context) error {
	_, err := secretstore.LoadMasterCredential(m.secrets)
	if errors.Is(err, secretstore.ErrNotFound) {
		m.state = StateUninitialized
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to probe master credential: %w", err)
	}
	m.state = StateLocked
	return nil
}

// Setup creates the vault from a fresh passphrase: validates policy,
// generates a salt, derives the key, persists the master credential, opens
// the store, and transitions to Unlocked with the key held in memory.
func (m *Manager) Setup(ctx context.Context, passphrase []byte) error {
	if m.state != StateUninitialized {
		return common.ErrVaultAlreadySetUp
	}
	if err := ValidatePassphrase(passphrase); err != nil {
		return err
	}
	m.state = StateSettingUp

	salt, err := cryptox.RandBytes(cryptox.SaltSize)
	if err != nil {
		m.state = StateUninitialized
		return err
	}

	key := cryptox.DeriveMasterKey(passphrase, salt)
	if err := ctx.Err(); err != nil {
		m.state = StateUninitialized
		common.WipeByteArray(key)
		return err
	}

	cred := &secretstore.MasterCredential{
		Salt:             salt,
		VerificationHash: cryptox.MakeVerifier(key),
	}
	if err := secretstore.SaveMasterCredential(m.secrets, cred); err != nil {
		m.state = StateUninitialized
		common.WipeByteArray(key)
		return fmt.Errorf("failed to persist master credential: %w", err)
	}

	if err := m.openUnlocked(ctx, key); err != nil {
		m.state = StateLocked
		return err
	}
	m.recordTimestamp(ctx, metaCreatedAt)
	m.logger.Info(ctx, "vault created")
	return nil
}

// Unlock re-derives the key from the stored salt and compares its verifier
// against the stored verification hash in constant time. A mismatch returns
// ErrIncorrectCredential and the session stays Locked; no detail about why
// the passphrase failed is ever surfaced.
func (m *Manager) Unlock(ctx context.Context, passphrase []byte) error {
	if m.state == StateUninitialized {
		// Same error as a wrong passphrase: phrasing must not reveal
		// whether setup has happened.
		return common.ErrIncorrectCredential
	}
	if m.state == StateUnlocked {
		return nil
	}
	m.state = StateUnlocking

	cred, err := secretstore.LoadMasterCredential(m.secrets)
	if err != nil {
		m.state = StateLocked
		if errors.Is(err, secretstore.ErrNotFound) {
			return common.ErrIncorrectCredential
		}
		return err
	}

	key := cryptox.DeriveMasterKey(passphrase, cred.Salt)
	if err := ctx.Err(); err != nil {
		m.state = StateLocked
		common.WipeByteArray(key)
		return err
	}

	verifier := cryptox.MakeVerifier(key)
	if subtle.ConstantTimeCompare(cred.VerificationHash, verifier) == 0 {
		m.state = StateLocked
		common.WipeByteArray(key)
		return common.ErrIncorrectCredential
	}

	if err := m.openUnlocked(ctx, key); err != nil {
		m.state = StateLocked
		return err
	}
	m.logger.Info(ctx, "vault unlocked")
	return nil
}

// UnlockWithEscrowedKey retrieves the biometric-escrowed master key and
// reopens the store with it, skipping passphrase re-entry. If no escrow is
// on file or the platform declines, the session stays Locked and the caller
// falls back to the passphrase path.
func (m *Manager) UnlockWithEscrowedKey(ctx context.Context) error {
	if m.state == StateUninitialized {
		return common.ErrVaultNotSetUp
	}
	if m.state == StateUnlocked {
		return nil
	}
	m.state = StateUnlocking

	key, err := secretstore.LoadEscrowedKey(m.secrets)
	if err != nil {
		m.state = StateLocked
		return fmt.Errorf("%w: %v", common.ErrEscrowUnavailable, err)
	}

	if err := m.openUnlocked(ctx, key); err != nil {
		m.state = StateLocked
		return err
	}
	m.logger.Info(ctx, "vault unlocked via escrowed key")
	return nil
}

// EnableEscrow wraps the current master key into the biometric-gated secret
// store. Only available while Unlocked.
func (m *Manager) EnableEscrow(ctx context.Context) error {
	key, err := m.Key()
	if err != nil {
		return err
	}
	if err := secretstore.SaveEscrowedKey(m.secrets, key); err != nil {
		return fmt.Errorf("failed to escrow key: %w", err)
	}
	m.logger.Info(ctx, "key escrow enabled")
	return nil
}

// DisableEscrow removes any escrowed key. Missing escrow is not an error.
func (m *Manager) DisableEscrow(ctx context.Context) error {
	err := secretstore.DeleteEscrowedKey(m.secrets)
	if err != nil && !errors.Is(err, secretstore.ErrNotFound) {
		return err
	}
	m.logger.Info(ctx, "key escrow disabled")
	return nil
}

// Lock closes the vault store and wipes the in-memory key. Triggered by
// explicit logout or by the front end losing focus. Locking an already
// locked (or never unlocked) session is a no-op.
func (m *Manager) Lock(ctx context.Context) error {
	if m.state != StateUnlocked && m.state != StateUnlocking {
		return nil
	}

	err := m.store.Close()
	common.WipeByteArray(m.masterKey)
	m.masterKey = nil
	m.state = StateLocked

	if err != nil {
		return err
	}
	m.logger.Info(ctx, "vault locked")
	return nil
}

func (m *Manager) openUnlocked(ctx context.Context, key []byte) error {
	if err := m.store.Open(ctx); err != nil {
		common.WipeByteArray(key)
		return err
	}
	m.masterKey = key
	m.state = StateUnlocked
	m.recordTimestamp(ctx, metaLastUnlockedAt)
	return nil
}

// recordTimestamp stamps an app_metadata key with the current unix-millis
// time. Bookkeeping only; failures are logged, never surfaced.
func (m *Manager) recordTimestamp(ctx context.Context, key string) {
	db, err := m.store.DB()
	if err != nil {
		return
	}
	repo := metadata.NewSQLiteRepository(db)
	value := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := repo.Set(ctx, key, []byte(value)); err != nil {
		m.logger.Warn(ctx, "failed to record metadata timestamp", "key", key, "error", err)
	}
}

// ValidatePassphrase enforces the setup policy: at least
// MinPassphraseLength characters, containing upper, lower, digit, and
// symbol classes. Violations return ErrWeakPassphrase.
func ValidatePassphrase(passphrase []byte) error {
	runes := []rune(string(passphrase))
	if len(runes) < MinPassphraseLength {
		return fmt.Errorf("%w: must be at least %d characters", common.ErrWeakPassphrase, MinPassphraseLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("%w: must include uppercase, lowercase, number, and symbol", common.ErrWeakPassphrase)
	}
	return nil
}
