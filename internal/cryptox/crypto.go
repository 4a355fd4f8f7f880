// Package cryptox wraps the cryptographic primitives the vault engine is
// built on: a CSPRNG byte source, password-based key derivation, a key
// verifier, and AES-256-GCM authenticated encryption.
//
// The primitives are deliberately narrow; callers never touch cipher modes
// or KDF parameters directly, so the security parameters below can be tuned
// in one place.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the master-credential salt size in bytes.
	SaltSize = 16
	// KeySize is the AES-256 master key size in bytes.
	KeySize = 32
	// IVSize is the GCM nonce size in bytes. The persisted envelope format
	// fixes this at 16; changing it breaks every stored field.
	IVSize = 16
	// TagSize is the GCM authentication tag size in bytes.
	TagSize = 16
	// Iterations is the PBKDF2 work factor (OWASP minimum for SHA-512).
	Iterations = 210000
)

// RandBytes returns n cryptographically random bytes, or ErrCryptoFailure
// if the OS entropy source fails. Callers must not fall back to a weaker
// source.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCryptoFailure, err)
	}
	return b, nil
}

// DeriveMasterKey derives a 32-byte master key from a passphrase and salt
// using PBKDF2-HMAC-SHA512. Derivation is deterministic: the same
// passphrase and salt always yield identical key bytes.
//
// The call is CPU-bound and deliberately slow; run it off any latency-
// sensitive loop.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha512.New)
}

// MakeVerifier returns a one-way hash of the master key. The verifier is
// safe to persist: it lets a later unlock check passphrase correctness
// without storing the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// Seal encrypts plaintext with AES-256-GCM under key, generating a fresh
// random IV per call. The GCM output is split so the authentication tag is
// returned separately from the ciphertext, matching the persisted
// {iv, cipher, tag} envelope.
//
// IV reuse under the same key is a correctness violation; the IV is drawn
// from the CSPRNG on every call and never supplied by the caller.
func Seal(plaintext, key []byte) (iv, ciphertext, tag []byte, err error) {
	iv, err = RandBytes(IVSize)
	if err != nil {
		return nil, nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	sealed := aesgcm.Seal(nil, iv, plaintext, nil)

	// GCM appends the tag to the ciphertext; the envelope stores it apart.
	split := len(sealed) - TagSize
	return iv, sealed[:split], sealed[split:], nil
}

// Open decrypts an {iv, cipher, tag} envelope produced by Seal. Any
// tampering, corruption, or wrong key yields ErrDecryptionFailed rather
// than garbage plaintext.
func Open(iv, ciphertext, tag, key []byte) ([]byte, error) {
	if len(iv) != IVSize || len(tag) != TagSize {
		return nil, fmt.Errorf("%w: malformed envelope", common.ErrDecryptionFailed)
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aesgcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCryptoFailure, err)
	}
	aesgcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCryptoFailure, err)
	}
	return aesgcm, nil
}
