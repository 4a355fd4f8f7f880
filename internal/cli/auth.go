package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fortvault/internal/common"
)

// Setup creates a new vault from a fresh master passphrase.
func (a *App) Setup(ctx context.Context) error {
	pw1, err := GetPassword("Choose a master passphrase: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw1)

	pw2, err := GetPassword("Confirm master passphrase: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw2)

	if string(pw1) != string(pw2) {
		fmt.Fprintln(a.out, "Passphrases do not match.")
		return nil
	}

	if err := a.session.Setup(ctx, pw1); err != nil {
		switch {
		case errors.Is(err, common.ErrWeakPassphrase):
			fmt.Fprintln(a.out, "Weak passphrase:", err)
		case errors.Is(err, common.ErrVaultAlreadySetUp):
			fmt.Fprintln(a.out, "A vault already exists; use 'unlock'.")
		default:
			fmt.Fprintln(a.out, "Setup failed:", err)
		}
		return err
	}

	key, err := a.key()
	if err != nil {
		return err
	}
	if err := a.categories.EnsureDefaults(ctx, key); err != nil {
		fmt.Fprintln(a.out, "Failed to seed default categories:", err)
		return err
	}

	fmt.Fprintln(a.out, "Vault created and unlocked.")
	return nil
}

// Unlock opens the vault with the master passphrase.
func (a *App) Unlock(ctx context.Context) error {
	pw, err := GetPassword("Master passphrase: ", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.session.Unlock(ctx, pw); err != nil {
		// One message for every failure mode: never hint whether the vault
		// exists or what part of the passphrase was wrong.
		fmt.Fprintln(a.out, "Unlock failed.")
		return err
	}
	fmt.Fprintln(a.out, "Vault unlocked.")
	return nil
}

// UnlockWithEscrow tries the biometric-escrowed key, falling back to the
// passphrase path when unavailable.
func (a *App) UnlockWithEscrow(ctx context.Context) error {
	if err := a.session.UnlockWithEscrowedKey(ctx); err != nil {
		if errors.Is(err, common.ErrEscrowUnavailable) {
			fmt.Fprintln(a.out, "No escrowed key available; use 'unlock'.")
			return nil
		}
		if errors.Is(err, common.ErrVaultNotSetUp) {
			fmt.Fprintln(a.out, "No vault exists; run 'setup' first.")
			return nil
		}
		fmt.Fprintln(a.out, "Unlock failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Vault unlocked.")
	return nil
}

// Escrow toggles the biometric key escrow while unlocked.
func (a *App) Escrow(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(a.out, "Usage: escrow on|off")
		return nil
	}

	if args[0] == "on" {
		if err := a.session.EnableEscrow(ctx); err != nil {
			fmt.Fprintln(a.out, "Failed to enable escrow:", err)
			return err
		}
		fmt.Fprintln(a.out, "Escrow enabled.")
		return nil
	}

	if err := a.session.DisableEscrow(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to disable escrow:", err)
		return err
	}
	fmt.Fprintln(a.out, "Escrow disabled.")
	return nil
}

// LockSession closes the store and wipes the key.
func (a *App) LockSession(ctx context.Context) error {
	if err := a.session.Lock(ctx); err != nil {
		fmt.Fprintln(a.out, "Lock failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Vault locked.")
	return nil
}
