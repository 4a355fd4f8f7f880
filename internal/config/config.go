package config

import "time"

// Config holds runtime settings for the FortVault CLI.
//
// Fields:
//   - VaultPath: filesystem path of the encrypted sqlite vault.
//   - KeyringService: service name used for OS-keyring items
//     (master credential, escrowed key).
//   - AutoLockTimeout: how long an unlocked session may stay idle before
//     the front end locks it.
//
// Units: AutoLockTimeout is a time.Duration (e.g. 2*time.Minute).
type Config struct {
	VaultPath       string
	KeyringService  string
	AutoLockTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.VaultPath = "fort.db"
	c.KeyringService = "com.fort.app.secure"
	c.AutoLockTimeout = 2 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
