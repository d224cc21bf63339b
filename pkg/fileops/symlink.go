package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsSymlink reports whether path is a symbolic link. Lstat is used so the
// link itself is examined, not its target.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("cannot stat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ResolveSymlink returns the fully resolved target of the link at linkPath.
func ResolveSymlink(linkPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(linkPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve symlink: %w", err)
	}
	return resolved, nil
}

// ValidateSymlinkSecurity verifies that the symlink at linkPath resolves to
// a location inside one of the allowed base paths. Both sides are
// canonicalized first so platform indirections (macOS /private) compare
// correctly.
func ValidateSymlinkSecurity(linkPath string, allowedBasePaths []string) error {
	isLink, err := IsSymlink(linkPath)
	if err != nil {
		return fmt.Errorf("cannot check if path is symlink: %w", err)
	}
	if !isLink {
		return fmt.Errorf("path is not a symbolic link: %s", linkPath)
	}

	resolved, err := ResolveSymlink(linkPath)
	if err != nil {
		return fmt.Errorf("symlink resolution failed: %w", err)
	}
	resolvedAbs, err := filepath.Abs(resolved)
	if err != nil {
		return fmt.Errorf("cannot get absolute path of resolved target: %w", err)
	}
	if canonical, err := filepath.EvalSymlinks(resolvedAbs); err == nil {
		resolvedAbs = canonical
	}

	for _, base := range allowedBasePaths {
		baseAbs, err := filepath.Abs(base)
		if err != nil {
			continue
		}
		if canonical, err := filepath.EvalSymlinks(baseAbs); err == nil {
			baseAbs = canonical
		}
		rel, err := filepath.Rel(baseAbs, resolvedAbs)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(rel, "..") {
			return nil
		}
	}
	return fmt.Errorf("symlink target is not within any allowed base path: %s", resolved)
}
