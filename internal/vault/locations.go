package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocationCatalog resolves location names against a flat directory of
// markdown files. Name matching is exact: case-sensitive, no trimming, no
// fuzzy fallback.
type LocationCatalog struct {
	dir string
}

// NewLocationCatalog returns a catalog over dir. The directory is expected
// to exist; a missing directory surfaces as an empty listing and NotFound
// lookups, matching the behavior of a freshly created vault.
func NewLocationCatalog(dir string) *LocationCatalog {
	return &LocationCatalog{dir: dir}
}

// Dir returns the configured catalog root.
func (c *LocationCatalog) Dir() string { return c.dir }

// List returns the sorted names of every non-reserved markdown file in the
// catalog directory, without extensions. An empty or missing directory
// yields an empty slice, not an error.
func (c *LocationCatalog) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read locations directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !IsVaultNote(entry.Name()) {
			continue
		}
		names = append(names, NoteName(entry.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the raw content of the location named name. It fails with
// ErrNotFound when no file with that exact stem exists, and with
// InvalidArgumentError when the name could not be a filename stem at all.
func (c *LocationCatalog) Get(name string) (string, error) {
	if err := validateName("name", name); err != nil {
		return "", err
	}
	if IsReserved(name) {
		return "", fmt.Errorf("location %q: %w", name, ErrNotFound)
	}

	path := filepath.Join(c.dir, name+MarkdownExt)
	content, err := readNote(path)
	if err != nil {
		return "", fmt.Errorf("location %q: %w", name, err)
	}
	return content, nil
}

// readNote reads a single markdown file, classifying the failure modes:
// missing files and directories masquerading as notes are ErrNotFound, any
// other read error is an IO failure passed through for the caller to wrap.
func readNote(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFound
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
