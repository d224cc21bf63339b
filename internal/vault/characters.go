package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"lorekeeper/pkg/fileops"
)

// maxOrgDepth bounds the recursive character walk. Real vaults nest two or
// three organization levels; the limit only guards against runaway trees.
const maxOrgDepth = 20

// CharacterDirectory resolves (name, organization path) pairs against a
// recursive tree of markdown files. Each character file lives under one or
// more organization directories; the slash-joined directory path from the
// root to the file's parent is the character's organization path.
type CharacterDirectory struct {
	root string
}

// NewCharacterDirectory returns a directory over root.
func NewCharacterDirectory(root string) *CharacterDirectory {
	return &CharacterDirectory{root: root}
}

// Root returns the configured characters root.
func (d *CharacterDirectory) Root() string { return d.root }

// List walks the characters tree and returns every non-reserved markdown
// file grouped by organization path, names sorted within each group.
// Organizations with no character files are omitted, as are files sitting
// directly in the root (they have no organization segment). A missing root
// yields an empty map.
func (d *CharacterDirectory) List() (map[string][]string, error) {
	if _, err := os.Stat(d.root); err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("failed to access characters directory: %w", err)
	}

	files, err := fileops.ScanNotes(d.root, &fileops.ScanOptions{
		MaxDepth:       maxOrgDepth,
		IgnorePrefix:   ReservedPrefix,
		FileFilter:     IsVaultNote,
		SkipUnreadable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan characters directory: %w", err)
	}

	grouped := map[string][]string{}
	for _, f := range files {
		org := filepath.ToSlash(filepath.Dir(f.Path))
		if org == "." {
			// Files directly in the root have no organization and are
			// not part of the directory contract.
			continue
		}
		grouped[org] = append(grouped[org], NoteName(f.Name))
	}
	for _, names := range grouped {
		sort.Strings(names)
	}
	return grouped, nil
}

// Get returns the raw content of the character file at
// root/<orgPath>/<name>.md. The organization path is validated before any
// filesystem path is built; reserved names are never retrievable even when
// addressed exactly.
func (d *CharacterDirectory) Get(name, orgPath string) (string, error) {
	if err := validateName("name", name); err != nil {
		return "", err
	}
	segments, err := ParseOrgPath(orgPath)
	if err != nil {
		return "", err
	}
	if IsReserved(name) {
		return "", fmt.Errorf("character %q in %q: %w", name, orgPath, ErrNotFound)
	}

	parts := append([]string{d.root}, segments...)
	parts = append(parts, name+MarkdownExt)
	content, err := readNote(filepath.Join(parts...))
	if err != nil {
		return "", fmt.Errorf("character %q in %q: %w", name, orgPath, err)
	}
	return content, nil
}

// Organizations returns the sorted organization paths currently holding at
// least one character. Convenience over List for presentation layers.
func (d *CharacterDirectory) Organizations() ([]string, error) {
	grouped, err := d.List()
	if err != nil {
		return nil, err
	}
	orgs := make([]string, 0, len(grouped))
	for org := range grouped {
		orgs = append(orgs, org)
	}
	sort.Strings(orgs)
	return orgs, nil
}
