package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/secretstore"
	"github.com/dmitrijs2005/fortvault/internal/vault/repositories/metadata"
	"github.com/dmitrijs2005/fortvault/internal/vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecretStore is an in-memory SecretStore for tests.
type fakeSecretStore struct {
	items map[string]string
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{items: make(map[string]string)}
}

func (f *fakeSecretStore) Get(name string) (string, error) {
	value, ok := f.items[name]
	if !ok {
		return "", secretstore.ErrNotFound
	}
	return value, nil
}

func (f *fakeSecretStore) Set(name string, value string) error {
	f.items[name] = value
	return nil
}

func (f *fakeSecretStore) Delete(name string) error {
	if _, ok := f.items[name]; !ok {
		return secretstore.ErrNotFound
	}
	delete(f.items, name)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testManager(t *testing.T) (*Manager, *fakeSecretStore) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "fort.db"), testLogger())
	t.Cleanup(func() { _ = st.Close() })
	secrets := newFakeSecretStore()
	return NewManager(st, secrets, testLogger()), secrets
}

const goodPassphrase = "Abcdef123!@#xyz"

func TestValidatePassphrase(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantErr    bool
	}{
		{"valid", goodPassphrase, false},
		{"too short", "Ab1!short", true},
		{"no uppercase", "abcdef123!@#xyz", true},
		{"no lowercase", "ABCDEF123!@#XYZ", true},
		{"no digit", "Abcdefgh!@#xyz", true},
		{"no symbol", "Abcdef123456xyz", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassphrase([]byte(tt.passphrase))
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrWeakPassphrase)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManager_BootstrapFreshVault(t *testing.T) {
	m, _ := testManager(t)
	require.NoError(t, m.Bootstrap(context.Background()))
	assert.Equal(t, StateUninitialized, m.State())

	_, err := m.Key()
	assert.ErrorIs(t, err, common.ErrNotUnlocked)
}

func TestManager_SetupRejectsWeakPassphrase(t *testing.T) {
	m, secrets := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Bootstrap(ctx))

	err := m.Setup(ctx, []byte("weak"))
	assert.ErrorIs(t, err, common.ErrWeakPassphrase)
	assert.Equal(t, StateUninitialized, m.State())
	assert.Empty(t, secrets.items)
}

func TestManager_SetupUnlocks(t *testing.T) {
	m, secrets := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Bootstrap(ctx))

	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))
	assert.Equal(t, StateUnlocked, m.State())

	key, err := m.Key()
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// credential persisted, key itself not stored
	cred, err := secretstore.LoadMasterCredential(secrets)
	require.NoError(t, err)
	assert.Len(t, cred.Salt, 16)
	assert.NotEqual(t, key, cred.VerificationHash)
}

func TestManager_SetupTwiceRejected(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))

	err := m.Setup(ctx, []byte(goodPassphrase))
	assert.ErrorIs(t, err, common.ErrVaultAlreadySetUp)
}

func TestManager_UnlockBeforeSetup(t *testing.T) {
	m, _ := testManager(t)
	// phrasing must not reveal that setup never happened
	err := m.Unlock(context.Background(), []byte(goodPassphrase))
	assert.ErrorIs(t, err, common.ErrIncorrectCredential)
}

func TestManager_LockAndUnlock(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))

	require.NoError(t, m.Lock(ctx))
	assert.Equal(t, StateLocked, m.State())
	_, err := m.Key()
	assert.ErrorIs(t, err, common.ErrNotUnlocked)

	// locking again is a no-op
	require.NoError(t, m.Lock(ctx))

	require.NoError(t, m.Unlock(ctx, []byte(goodPassphrase)))
	assert.Equal(t, StateUnlocked, m.State())
	key, err := m.Key()
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// unlocking an unlocked session is a no-op
	require.NoError(t, m.Unlock(ctx, []byte(goodPassphrase)))
}

func TestManager_UnlockWrongPassphrase(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))
	require.NoError(t, m.Lock(ctx))

	err := m.Unlock(ctx, []byte("Wrong-passphrase-1!"))
	assert.ErrorIs(t, err, common.ErrIncorrectCredential)
	assert.Equal(t, StateLocked, m.State())

	_, err = m.Key()
	assert.ErrorIs(t, err, common.ErrNotUnlocked)
}

func TestManager_BootstrapExistingVault(t *testing.T) {
	m, secrets := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))
	require.NoError(t, m.Lock(ctx))

	// a second process start over the same secret store resumes Locked
	st := store.New(filepath.Join(t.TempDir(), "fort.db"), testLogger())
	t.Cleanup(func() { _ = st.Close() })
	m2 := NewManager(st, secrets, testLogger())
	require.NoError(t, m2.Bootstrap(ctx))
	assert.Equal(t, StateLocked, m2.State())
}

func TestManager_EscrowRoundTrip(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))

	keyBefore, err := m.Key()
	require.NoError(t, err)
	keyCopy := append([]byte(nil), keyBefore...)

	require.NoError(t, m.EnableEscrow(ctx))
	require.NoError(t, m.Lock(ctx))

	require.NoError(t, m.UnlockWithEscrowedKey(ctx))
	assert.Equal(t, StateUnlocked, m.State())

	keyAfter, err := m.Key()
	require.NoError(t, err)
	assert.Equal(t, keyCopy, keyAfter)
}

func TestManager_EscrowBeforeSetup(t *testing.T) {
	m, _ := testManager(t)
	err := m.UnlockWithEscrowedKey(context.Background())
	assert.ErrorIs(t, err, common.ErrVaultNotSetUp)
}

func TestManager_EscrowUnavailable(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))
	require.NoError(t, m.Lock(ctx))

	err := m.UnlockWithEscrowedKey(ctx)
	assert.ErrorIs(t, err, common.ErrEscrowUnavailable)
	assert.Equal(t, StateLocked, m.State())
}

func TestManager_DisableEscrow(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))
	require.NoError(t, m.EnableEscrow(ctx))

	require.NoError(t, m.DisableEscrow(ctx))
	// disabling when nothing is escrowed is not an error
	require.NoError(t, m.DisableEscrow(ctx))

	require.NoError(t, m.Lock(ctx))
	assert.ErrorIs(t, m.UnlockWithEscrowedKey(ctx), common.ErrEscrowUnavailable)
}

func TestManager_SetupStampsMetadata(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "fort.db"), testLogger())
	t.Cleanup(func() { _ = st.Close() })
	m := NewManager(st, newFakeSecretStore(), testLogger())
	ctx := context.Background()

	require.NoError(t, m.Setup(ctx, []byte(goodPassphrase)))

	db, err := st.DB()
	require.NoError(t, err)
	repo := metadata.NewSQLiteRepository(db)

	created, err := repo.Get(ctx, "vault_created_at")
	require.NoError(t, err)
	assert.NotEmpty(t, created)

	unlocked, err := repo.Get(ctx, "last_unlocked_at")
	require.NoError(t, err)
	assert.NotEmpty(t, unlocked)
}

func TestManager_EnableEscrowRequiresUnlocked(t *testing.T) {
	m, _ := testManager(t)
	err := m.EnableEscrow(context.Background())
	assert.ErrorIs(t, err, common.ErrNotUnlocked)
}
