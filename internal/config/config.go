// Package config loads and persists lorekeeper's configuration: where the
// campaign vault lives and, optionally, the git remote it is synced from.
// The lookup core never reads the environment or the config file itself;
// everything is resolved here and passed in.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lorekeeper/internal/logging"
	"lorekeeper/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for the config directory and keyring service name.
const AppName = "lorekeeper"

// Default subdirectory names inside the vault root.
const (
	DefaultLocationsDir  = "Locations"
	DefaultCharactersDir = "Characters"
	DefaultSessionsDir   = "Sessions"
)

// Environment overrides, applied on top of the config file by Load.
const (
	EnvVaultDir      = "LOREKEEPER_VAULT_DIR"
	EnvLocationsDir  = "LOREKEEPER_LOCATIONS_DIR"
	EnvCharactersDir = "LOREKEEPER_CHARACTERS_DIR"
	EnvSessionsDir   = "LOREKEEPER_SESSIONS_DIR"
)

// Config holds user configuration for lorekeeper.
type Config struct {
	// VaultDir is the campaign vault root. The three lookup roots default
	// to subdirectories of it.
	VaultDir string `yaml:"vault_dir"`

	// Optional per-root overrides; absolute or home-relative paths.
	LocationsDir  string `yaml:"locations_dir,omitempty"`
	CharactersDir string `yaml:"characters_dir,omitempty"`
	SessionsDir   string `yaml:"sessions_dir,omitempty"`

	// VaultSource is an optional git remote the vault is cloned/pulled
	// from by the sync command. Empty means the vault is purely local.
	VaultSource string `yaml:"vault_source,omitempty"`
	// VaultBranch pins the branch for sync. Empty uses the remote HEAD.
	VaultBranch string `yaml:"vault_branch,omitempty"`

	Version  string `yaml:"version"`
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first save
}

// ConfigPath returns the standard config file path for the current platform.
func ConfigPath() (string, error) {
	configPath := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load reads the config from the standard location and applies environment
// overrides. A missing config file is not an error as long as the
// environment supplies a vault directory.
func Load() (*Config, error) {
	var cfg *Config

	path, exists := FindConfigFile()
	if exists {
		loaded, err := LoadFrom(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		logging.Debug("No config file found, relying on environment", "path", path)
		cfg = &Config{}
	}

	cfg.applyEnvironment()
	if cfg.VaultDir == "" && (cfg.LocationsDir == "" || cfg.CharactersDir == "" || cfg.SessionsDir == "") {
		return nil, fmt.Errorf("no vault configured: set vault_dir in %s or %s", path, EnvVaultDir)
	}
	return cfg, nil
}

// LoadFrom loads config from a specific path.
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// FindConfigFile returns the path to the config file and whether it exists.
func FindConfigFile() (string, bool) {
	path, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return path, false
}

// applyEnvironment overlays environment variables onto the loaded config.
func (c *Config) applyEnvironment() {
	if v := os.Getenv(EnvVaultDir); v != "" {
		c.VaultDir = v
	}
	if v := os.Getenv(EnvLocationsDir); v != "" {
		c.LocationsDir = v
	}
	if v := os.Getenv(EnvCharactersDir); v != "" {
		c.CharactersDir = v
	}
	if v := os.Getenv(EnvSessionsDir); v != "" {
		c.SessionsDir = v
	}
}

// LocationsRoot resolves the locations directory.
func (c *Config) LocationsRoot() string {
	return c.resolveRoot(c.LocationsDir, DefaultLocationsDir)
}

// CharactersRoot resolves the characters directory.
func (c *Config) CharactersRoot() string {
	return c.resolveRoot(c.CharactersDir, DefaultCharactersDir)
}

// SessionsRoot resolves the sessions directory.
func (c *Config) SessionsRoot() string {
	return c.resolveRoot(c.SessionsDir, DefaultSessionsDir)
}

func (c *Config) resolveRoot(override, defaultName string) string {
	if override != "" {
		return fileops.ExpandPath(override)
	}
	return filepath.Join(fileops.ExpandPath(c.VaultDir), defaultName)
}

// Validate checks the resolved roots point at existing directories. It is
// called by the serving collaborators before the lookup core is built; the
// core itself treats the roots as opaque.
func (c *Config) Validate() error {
	for _, root := range []struct {
		kind string
		path string
	}{
		{"locations", c.LocationsRoot()},
		{"characters", c.CharactersRoot()},
		{"sessions", c.SessionsRoot()},
	} {
		info, err := os.Stat(root.path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s directory does not exist: %s", root.kind, root.path)
			}
			return fmt.Errorf("cannot access %s directory: %w", root.kind, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s path is not a directory: %s", root.kind, root.path)
		}
	}
	return nil
}

// Save writes the config to the standard location.
func (c *Config) Save() error {
	path, _ := FindConfigFile()
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}
	if c.Version == "" {
		c.Version = "1.0"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Restrictive permissions: the file may name private git remotes.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
