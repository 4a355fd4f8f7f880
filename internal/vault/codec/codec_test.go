package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"github.com/dmitrijs2005/fortvault/internal/cryptox"
	"github.com/dmitrijs2005/fortvault/internal/vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptox.RandBytes(cryptox.KeySize)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptField_RoundTrip(t *testing.T) {
	key := testKey(t)

	tests := []string{"", "Gmail", "hunter2!A", "многоязычный текст", `{"nested":"json"}`}
	for _, plaintext := range tests {
		f, err := EncryptField(plaintext, key)
		require.NoError(t, err)

		decrypted, err := DecryptField(f, key)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptField_DistinctIVs(t *testing.T) {
	key := testKey(t)

	f1, err := EncryptField("same", key)
	require.NoError(t, err)
	f2, err := EncryptField("same", key)
	require.NoError(t, err)

	assert.NotEqual(t, f1.IV, f2.IV)
	assert.NotEqual(t, f1.Cipher, f2.Cipher)
}

func TestDecryptField_WrongKey(t *testing.T) {
	f, err := EncryptField("secret", testKey(t))
	require.NoError(t, err)

	_, err = DecryptField(f, testKey(t))
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestEncryptDecryptString_WireForm(t *testing.T) {
	key := testKey(t)

	envelope, err := EncryptString("Gmail", key)
	require.NoError(t, err)

	// the persisted form must be a parseable {iv, cipher, tag} envelope
	f, err := models.UnmarshalEncryptedField(envelope)
	require.NoError(t, err)
	assert.Len(t, f.IV, cryptox.IVSize)
	assert.Len(t, f.Tag, cryptox.TagSize)

	decrypted, err := DecryptString(envelope, key)
	require.NoError(t, err)
	assert.Equal(t, "Gmail", decrypted)
}

func TestDecryptString_MalformedEnvelope(t *testing.T) {
	_, err := DecryptString("not json at all", testKey(t))
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestEncryptDecryptJSON_TagsBlob(t *testing.T) {
	key := testKey(t)

	tags := []string{"work", "email"}
	envelope, err := EncryptJSON(tags, key)
	require.NoError(t, err)

	var decoded []string
	require.NoError(t, DecryptJSON(envelope, key, &decoded))
	assert.Equal(t, tags, decoded)
}

func TestEncryptDecryptJSON_HistoryBlob(t *testing.T) {
	key := testKey(t)

	changedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []models.PasswordHistoryItem{{Password: "old-one", ChangedAt: changedAt}}

	envelope, err := EncryptJSON(history, key)
	require.NoError(t, err)

	var decoded []models.PasswordHistoryItem
	require.NoError(t, DecryptJSON(envelope, key, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "old-one", decoded[0].Password)
	assert.True(t, decoded[0].ChangedAt.Equal(changedAt))
}

func TestDecryptJSON_WrongKey(t *testing.T) {
	envelope, err := EncryptJSON([]string{"a"}, testKey(t))
	require.NoError(t, err)

	var decoded []string
	err = DecryptJSON(envelope, testKey(t), &decoded)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}
