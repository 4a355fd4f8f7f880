package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/fortvault/internal/session"
)

func (a *App) getStatus() string {
	switch a.session.State() {
	case session.StateUnlocked:
		return "unlocked"
	case session.StateUninitialized:
		return "no vault"
	default:
		return "locked"
	}
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to FortVault (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	lastActivity := timeNow()

	for {
		fmt.Fprintf(a.out, "fort (%s)> ", a.getStatus())
		if !scanner.Scan() {
			// EOF behaves like losing focus: lock before leaving.
			_ = a.session.Lock(ctx)
			return
		}

		// Idle sessions lock on the next keystroke, same as the app going to
		// the background.
		now := timeNow()
		if a.isUnlocked() && a.config.AutoLockTimeout > 0 && now.Sub(lastActivity) > a.config.AutoLockTimeout {
			_ = a.session.Lock(ctx)
			fmt.Fprintln(a.out, "Vault auto-locked after inactivity.")
		}
		lastActivity = now

		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "setup":
			_ = a.Setup(ctx)
		case "unlock":
			_ = a.Unlock(ctx)
		case "biometric":
			_ = a.UnlockWithEscrow(ctx)
		case "lock", "logout":
			_ = a.LockSession(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, args)
		case "add":
			_ = a.AddEntry(ctx)
		case "edit":
			_ = a.EditEntry(ctx, args)
		case "delete":
			_ = a.DeleteEntry(ctx, args)
		case "search":
			_ = a.Search(ctx, args)
		case "categories":
			_ = a.ListCategories(ctx)
		case "addcat":
			_ = a.AddCategory(ctx)
		case "delcat":
			_ = a.DeleteCategory(ctx, args)
		case "gen":
			_ = a.GeneratePassword(args)
		case "escrow":
			_ = a.Escrow(ctx, args)
		case "export":
			_ = a.Export(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) printHelp() {
	if a.isUnlocked() {
		fmt.Fprintln(a.out, "Available commands: (l)ist, show, add, edit, delete, search, categories, addcat, delcat, gen, escrow on|off, export, lock, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: setup, unlock, biometric, gen, exit")
	}
}
