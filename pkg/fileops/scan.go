package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScanOptions configures a recursive note scan.
type ScanOptions struct {
	// MaxDepth bounds the recursion. Zero means DefaultMaxDepth.
	MaxDepth int

	// IgnorePrefix excludes any file or directory whose base name starts
	// with this prefix. Empty disables prefix filtering.
	IgnorePrefix string

	// FileFilter limits which files are reported. Nil reports every file.
	FileFilter func(filename string) bool

	// SkipUnreadable makes the scan tolerate unreadable directories and
	// unstattable entries instead of failing the whole walk.
	SkipUnreadable bool
}

// DefaultMaxDepth is the recursion bound applied when ScanOptions leaves
// MaxDepth at zero.
const DefaultMaxDepth = 20

// FileInfo describes one file discovered by ScanNotes.
type FileInfo struct {
	// Name is the base filename.
	Name string

	// Path is the path relative to the scan root, using the platform
	// separator.
	Path string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// ScanNotes recursively scans root and returns every file matching the
// options, in lexicographic path order. The walk happens inside an os.Root,
// so symlinks pointing outside the tree cannot leak entries, and a visited
// set guards against symlink loops.
func ScanNotes(root string, opts *ScanOptions) ([]FileInfo, error) {
	if opts == nil {
		opts = &ScanOptions{}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	absRoot, err := filepath.Abs(ExpandPath(strings.TrimSpace(root)))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve scan root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot access scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", absRoot)
	}

	secureRoot, err := os.OpenRoot(absRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot open secure scan root: %w", err)
	}
	defer secureRoot.Close()

	s := &noteScanner{
		root:     secureRoot,
		rootPath: absRoot,
		opts:     opts,
		maxDepth: maxDepth,
		visited:  map[string]bool{},
	}
	if err := s.walk(".", 1); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return s.results, nil
}

type noteScanner struct {
	root     *os.Root
	rootPath string
	opts     *ScanOptions
	maxDepth int
	visited  map[string]bool
	results  []FileInfo
}

func (s *noteScanner) walk(rel string, depth int) error {
	if depth > s.maxDepth {
		return nil
	}

	clean := filepath.Clean(rel)
	if s.visited[clean] {
		// Already seen through another path; a symlink loop.
		return nil
	}
	s.visited[clean] = true

	dir, err := s.root.Open(rel)
	if err != nil {
		if s.opts.SkipUnreadable {
			return nil
		}
		return fmt.Errorf("cannot open directory %s: %w", rel, err)
	}
	entries, err := dir.ReadDir(-1)
	dir.Close()
	if err != nil {
		if s.opts.SkipUnreadable {
			return nil
		}
		return fmt.Errorf("cannot read directory %s: %w", rel, err)
	}
	// File.ReadDir returns entries in directory order; sort so every scan
	// of the same tree is deterministic.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if s.ignored(name) {
			continue
		}
		entryRel := filepath.Join(rel, name)

		if entry.IsDir() {
			full := filepath.Join(s.rootPath, entryRel)
			if isLink, err := IsSymlink(full); err == nil && isLink {
				if err := ValidateSymlinkSecurity(full, []string{s.rootPath}); err != nil {
					if s.opts.SkipUnreadable {
						continue
					}
					return fmt.Errorf("unsafe symlink at %s: %w", entryRel, err)
				}
			}
			if err := s.walk(entryRel, depth+1); err != nil {
				return err
			}
			continue
		}

		if s.opts.FileFilter != nil && !s.opts.FileFilter(name) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			if s.opts.SkipUnreadable {
				continue
			}
			return fmt.Errorf("cannot stat %s: %w", entryRel, err)
		}
		s.results = append(s.results, FileInfo{
			Name:    name,
			Path:    entryRel,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return nil
}

func (s *noteScanner) ignored(name string) bool {
	return s.opts.IgnorePrefix != "" && strings.HasPrefix(name, s.opts.IgnorePrefix)
}
