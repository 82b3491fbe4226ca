// Package file stores CLI configuration in a TOML file under the user's
// home directory.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds everything needed to reach the backup platform.
type Config struct {
	// AccountURL is the platform account URL, e.g. "https://acme.my.vault.com".
	AccountURL string `toml:"account_url"`
	// Token is a static API access token. Takes precedence over client
	// credentials when both are configured.
	Token string `toml:"token"`
	// ClientID and ClientSecret authenticate a service account via the
	// OAuth2 client credentials grant.
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	// TokenURL is the token endpoint for the client credentials grant.
	TokenURL string `toml:"token_url"`
	// DefaultSubscription is used when a command omits --subscription.
	DefaultSubscription string `toml:"default_subscription"`
	// RequestsPerSecond and BurstSize override the API rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int     `toml:"burst_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// ConfigStore loads and saves the configuration file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store for the given path. An empty path selects
// the default location ~/.m365vault/config.toml.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".m365vault", "config.toml")
	}
	return &ConfigStore{path: path}, nil
}

// Path returns the file path backing this store.
func (s *ConfigStore) Path() string {
	return s.path
}

// Load reads the configuration file and applies environment overrides.
// A missing file yields the defaults, not an error.
func (s *ConfigStore) Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run; environment overrides may still configure everything.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", s.path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", s.path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration with owner-only permissions; the file
// carries credentials.
func (s *ConfigStore) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("M365VAULT_URL"); v != "" {
		cfg.AccountURL = v
	}
	if v := os.Getenv("M365VAULT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("M365VAULT_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("M365VAULT_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv("M365VAULT_TOKEN_URL"); v != "" {
		cfg.TokenURL = v
	}
	if v := os.Getenv("M365VAULT_SUBSCRIPTION"); v != "" {
		cfg.DefaultSubscription = v
	}
}
