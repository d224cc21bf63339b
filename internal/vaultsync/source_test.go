package vaultsync

import (
	"os"
	"path/filepath"
	"testing"

	"lorekeeper/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSourcePrepareValidPath(t *testing.T) {
	dir := t.TempDir()
	logger, _ := logging.NewTestLogger()

	path, info, err := NewLocalSource(dir).Prepare(logger)
	require.NoError(t, err)
	assert.Equal(t, dir, path)
	assert.False(t, info.Cloned)
	assert.False(t, info.Updated)
	assert.Contains(t, info.Message, "local vault")
}

func TestLocalSourcePrepareEmptyPath(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, _, err := NewLocalSource("  ").Prepare(logger)
	assert.Error(t, err)
}

func TestLocalSourcePrepareMissingDirectory(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, _, err := NewLocalSource(filepath.Join(t.TempDir(), "absent")).Prepare(logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLocalSourcePreparePathTraversalRejected(t *testing.T) {
	logger, _ := logging.NewTestLogger()

	_, _, err := NewLocalSource("/tmp/../etc").Prepare(logger)
	assert.Error(t, err)
}

func TestLocalSourcePrepareNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vault.md")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0o644))
	logger, _ := logging.NewTestLogger()

	_, _, err := NewLocalSource(file).Prepare(logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
