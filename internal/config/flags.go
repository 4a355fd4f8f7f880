package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fortvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the vault database file (default from Config)
//	-s string   OS keyring service name (default from Config)
//	-t int      auto-lock timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.VaultPath, "d", cfg.VaultPath, "path to the vault database file")
	fs.StringVar(&cfg.KeyringService, "s", cfg.KeyringService, "OS keyring service name")
	autoLockTimeout := fs.Int("t", int(cfg.AutoLockTimeout.Seconds()), "auto-lock timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AutoLockTimeout = time.Duration(*autoLockTimeout) * time.Second
}
