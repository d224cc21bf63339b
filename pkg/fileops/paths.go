package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandPath expands a leading "~/" to the user's home directory. Paths
// without the prefix, or when the home directory cannot be determined, are
// returned unchanged.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ValidateStoragePath checks that a path is suitable as a vault or clone
// root: non-empty, free of traversal sequences, absolute or home-relative,
// not a reserved system directory (even through a symlink), and with an
// existing parent directory.
func ValidateStoragePath(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.Contains(trimmed, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	expanded := ExpandPath(trimmed)
	if strings.Contains(filepath.Clean(expanded), "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	if !filepath.IsAbs(expanded) && !strings.HasPrefix(trimmed, "~/") {
		return fmt.Errorf("path must be absolute or relative to home directory (~)")
	}

	// A symlink pointing at a system directory is as bad as the directory
	// itself.
	if resolved, err := filepath.EvalSymlinks(expanded); err == nil {
		if IsReservedDirectory(resolved) {
			return fmt.Errorf("path resolves to a reserved directory")
		}
	}
	if IsReservedDirectory(expanded) {
		return fmt.Errorf("cannot use system or reserved directories")
	}

	parent := filepath.Dir(expanded)
	if parent != "." {
		if _, err := os.Stat(parent); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("parent directory does not exist: %s", parent)
			}
			return fmt.Errorf("cannot access parent directory: %w", err)
		}
	}
	return nil
}

// IsDirEmpty reports whether the directory at path contains no entries.
func IsDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// ValidatePathInHome verifies targetPath sits inside the user's home
// directory and returns its home-relative form.
func ValidatePathInHome(targetPath string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}

	rel, err := filepath.Rel(filepath.Clean(home), filepath.Clean(targetPath))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path is outside home directory")
	}
	return rel, nil
}

// IsReservedDirectory reports whether path is a system or otherwise
// critical directory that must never serve as application storage.
// Symlinks are resolved before comparison.
func IsReservedDirectory(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	absPath = filepath.Clean(absPath)
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}

	if absPath == "/" || absPath == "\\" || absPath == "C:\\" {
		return true
	}

	pathLower := strings.ToLower(filepath.Clean(absPath))
	for _, reserved := range reservedDirectories() {
		reservedLower := strings.ToLower(filepath.Clean(reserved))
		if pathLower == reservedLower {
			return true
		}
		if strings.HasPrefix(pathLower, reservedLower+string(os.PathSeparator)) {
			if isUserTempDirectory(absPath) {
				continue
			}
			return true
		}
	}
	return false
}

func reservedDirectories() []string {
	var dirs []string

	switch runtime.GOOS {
	case "windows":
		dirs = []string{
			`C:\Windows`,
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`C:\System32`,
		}
	case "darwin":
		dirs = []string{
			"/System", "/usr/bin", "/usr/sbin", "/bin", "/sbin", "/etc",
			"/var/log", "/var/db", "/var/root", "/private/etc",
		}
	default:
		dirs = []string{
			"/bin", "/sbin", "/usr/bin", "/usr/sbin", "/etc", "/boot",
			"/dev", "/proc", "/sys", "/var/log", "/var/lib", "/root",
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".ssh"),
			filepath.Join(home, ".gnupg"),
		)
	}
	return dirs
}

// isUserTempDirectory exempts legitimate per-user temp locations that live
// under otherwise reserved prefixes (macOS /var/folders, /tmp).
func isUserTempDirectory(path string) bool {
	if runtime.GOOS == "darwin" && strings.Contains(path, "/var/folders/") {
		return true
	}
	clean := filepath.Clean(path)
	if clean == "/tmp" || strings.HasPrefix(clean, "/tmp/") {
		return true
	}
	return strings.HasPrefix(clean, filepath.Clean(os.TempDir()))
}
