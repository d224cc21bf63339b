package vaultsync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lorekeeper/internal/logging"
	"lorekeeper/pkg/fileops"
)

// Source abstracts where a campaign vault comes from. Implementations
// resolve to an absolute local directory that holds the vault content.
type Source interface {
	// Prepare validates the source and makes its content available
	// locally, returning the vault root and details about what happened.
	Prepare(logger *logging.AppLogger) (localPath string, info SyncInfo, err error)
}

// SyncInfo describes the outcome of a Prepare call.
type SyncInfo struct {
	Cloned  bool   // a fresh clone was made
	Updated bool   // an existing clone was fetched
	Dirty   bool   // local copy has uncommitted changes, sync skipped
	Message string // human-readable summary
}

// LocalSource is a vault that already lives on disk. Prepare only
// validates the configured path; nothing is copied or fetched.
type LocalSource struct {
	// Path to the vault directory, absolute or home-relative (~/...).
	Path string
}

func NewLocalSource(path string) LocalSource {
	return LocalSource{Path: path}
}

// Prepare expands and validates the path and checks that it is an
// existing directory.
func (ls LocalSource) Prepare(logger *logging.AppLogger) (string, SyncInfo, error) {
	if logger != nil {
		logger.Info("Preparing local vault source", "path", ls.Path)
	}

	trimmed := strings.TrimSpace(ls.Path)
	if trimmed == "" {
		return "", SyncInfo{}, fmt.Errorf("local vault path cannot be empty")
	}

	clean := filepath.Clean(fileops.ExpandPath(trimmed))
	if err := fileops.ValidateStoragePath(clean); err != nil {
		return "", SyncInfo{}, fmt.Errorf("invalid local vault path: %w", err)
	}

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return "", SyncInfo{}, fmt.Errorf("vault directory does not exist: %s", clean)
		}
		return "", SyncInfo{}, fmt.Errorf("cannot access vault directory: %w", err)
	}
	if !info.IsDir() {
		return "", SyncInfo{}, fmt.Errorf("vault path is not a directory: %s", clean)
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		abs = clean
	}

	return abs, SyncInfo{Message: "Using local vault"}, nil
}
