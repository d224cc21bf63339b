package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointXDGAt redirects the config search path to an empty directory. The
// xdg package caches its roots at init, so it must be reloaded after the
// environment changes.
func pointXDGAt(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

// clearEnv blanks every override so the host environment cannot leak into
// a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvVaultDir, EnvLocationsDir, EnvCharactersDir, EnvSessionsDir} {
		t.Setenv(key, "")
	}
}

func TestLoadFromAndSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := &Config{
		VaultDir:    "~/campaign",
		VaultSource: "https://github.com/dm/campaign.git",
		VaultBranch: "main",
	}

	require.NoError(t, original.SaveTo(path))

	// SaveTo stamps version and init time on first write.
	assert.Equal(t, "1.0", original.Version)
	assert.NotZero(t, original.InitTime)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, original.VaultDir, loaded.VaultDir)
	assert.Equal(t, original.VaultSource, loaded.VaultSource)
	assert.Equal(t, original.VaultBranch, loaded.VaultBranch)
	assert.Equal(t, original.InitTime, loaded.InitTime)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vault_dir: [unclosed"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	vault := t.TempDir()
	t.Setenv(EnvVaultDir, vault)
	pointXDGAt(t, filepath.Join(t.TempDir(), "xdg"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, vault, cfg.VaultDir)
}

func TestLoadNothingConfigured(t *testing.T) {
	clearEnv(t)
	pointXDGAt(t, filepath.Join(t.TempDir(), "xdg"))

	_, err := Load()
	assert.ErrorContains(t, err, "no vault configured")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	override := t.TempDir()
	t.Setenv(EnvCharactersDir, override)

	cfg := &Config{VaultDir: "/vault"}
	cfg.applyEnvironment()
	assert.Equal(t, override, cfg.CharactersDir)
	assert.Equal(t, "/vault", cfg.VaultDir)
}

func TestRootResolution(t *testing.T) {
	clearEnv(t)
	cfg := &Config{VaultDir: "/vault"}

	assert.Equal(t, filepath.Join("/vault", DefaultLocationsDir), cfg.LocationsRoot())
	assert.Equal(t, filepath.Join("/vault", DefaultCharactersDir), cfg.CharactersRoot())
	assert.Equal(t, filepath.Join("/vault", DefaultSessionsDir), cfg.SessionsRoot())

	cfg.SessionsDir = "/elsewhere/logs"
	assert.Equal(t, "/elsewhere/logs", cfg.SessionsRoot())
}

func TestValidate(t *testing.T) {
	vault := t.TempDir()
	cfg := &Config{VaultDir: vault}

	err := cfg.Validate()
	assert.ErrorContains(t, err, "locations directory does not exist")

	for _, sub := range []string{DefaultLocationsDir, DefaultCharactersDir, DefaultSessionsDir} {
		require.NoError(t, os.Mkdir(filepath.Join(vault, sub), 0o755))
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRootIsFile(t *testing.T) {
	vault := t.TempDir()
	for _, sub := range []string{DefaultCharactersDir, DefaultSessionsDir} {
		require.NoError(t, os.Mkdir(filepath.Join(vault, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(vault, DefaultLocationsDir), []byte("x"), 0o644))

	err := (&Config{VaultDir: vault}).Validate()
	assert.ErrorContains(t, err, "not a directory")
}
