// Package cli implements the interactive FortVault front end: a small REPL
// over the session manager and record services. It is presentation glue —
// all invariants live in the engine packages it calls.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/fortvault/internal/config"
	"github.com/dmitrijs2005/fortvault/internal/logging"
	"github.com/dmitrijs2005/fortvault/internal/secretstore"
	"github.com/dmitrijs2005/fortvault/internal/session"
	"github.com/dmitrijs2005/fortvault/internal/vault/services"
	"github.com/dmitrijs2005/fortvault/internal/vault/store"
)

type App struct {
	config     *config.Config
	session    *session.Manager
	categories *services.CategoryService
	entries    *services.EntryService
	reader     *bufio.Reader
	out        io.Writer
}

func NewApp(c *config.Config) *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st := store.New(c.VaultPath, logger)
	secrets := secretstore.NewKeyring(c.KeyringService)

	return &App{
		config:     c,
		session:    session.NewManager(st, secrets, logger),
		categories: services.NewCategoryService(st, logger),
		entries:    services.NewEntryService(st, logger),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) error {
	if err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	defer a.session.Lock(ctx)

	a.Root(ctx)
	return nil
}

func (a *App) isUnlocked() bool {
	return a.session.State() == session.StateUnlocked
}

// key borrows the master key for one command; it is never stored on App.
func (a *App) key() ([]byte, error) {
	return a.session.Key()
}
