// Package common defines shared constants and sentinel errors used across
// FortVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Crypto primitive errors.
	ErrCryptoFailure    = errors.New("crypto backend failure")
	ErrDecryptionFailed = errors.New("decryption failed")

	// Session / credential errors.
	ErrIncorrectCredential = errors.New("incorrect credential")
	ErrWeakPassphrase      = errors.New("passphrase does not meet policy")
	ErrVaultNotSetUp       = errors.New("vault is not set up")
	ErrVaultAlreadySetUp   = errors.New("vault is already set up")
	ErrNotUnlocked         = errors.New("vault is not unlocked")
	ErrEscrowUnavailable   = errors.New("escrowed key unavailable")

	// Storage errors.
	ErrStorageFailure = errors.New("storage failure")
	ErrStoreClosed    = errors.New("store is closed")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Policy errors.
	ErrDefaultCategoryProtected = errors.New("default category cannot be deleted")
	ErrValidation               = errors.New("validation error")
)
