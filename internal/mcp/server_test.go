package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	vaultDir := t.TempDir()
	for _, sub := range []string{"Locations", "Characters", "Sessions"} {
		require.NoError(t, os.MkdirAll(filepath.Join(vaultDir, sub), 0o755))
	}
	return &config.Config{VaultDir: vaultDir}
}

func TestNewServer(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	s, err := NewServer(testConfig(t), logger)
	require.NoError(t, err)
	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.locations)
	assert.NotNil(t, s.characters)
	assert.NotNil(t, s.sessions)
}

func TestNewServerMissingRoots(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	cfg := &config.Config{VaultDir: filepath.Join(t.TempDir(), "absent")}

	_, err := NewServer(cfg, logger)
	assert.Error(t, err)
}
