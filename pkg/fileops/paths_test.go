package fileops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/vault", filepath.Join(home, "vault")},
		{"~/a/b", filepath.Join(home, "a", "b")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~elsewhere", "~elsewhere"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateStoragePath(t *testing.T) {
	valid := filepath.Join(t.TempDir(), "vault")

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid temp path", valid, ""},
		{"home relative", "~/lorekeeper-test-vault", ""},
		{"empty", "", "empty"},
		{"whitespace only", "   ", "empty"},
		{"traversal", "/tmp/../etc", "traversal"},
		{"relative", "some/relative/dir", "absolute"},
		{"root", "/", "reserved"},
		{"system dir", "/etc/vault", "reserved"},
		{"missing parent", filepath.Join(valid, "a", "b", "c"), "parent directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoragePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateStoragePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateStoragePath(%q) = %v, want error containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestIsDirEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty: %v", err)
	}
	if !empty {
		t.Error("fresh temp dir should be empty")
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty, err = IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty: %v", err)
	}
	if empty {
		t.Error("dir with a file should not be empty")
	}

	if _, err := IsDirEmpty(filepath.Join(dir, "absent")); err == nil {
		t.Error("IsDirEmpty on missing dir: expected error")
	}
}

func TestIsReservedDirectory(t *testing.T) {
	reserved := []string{"/", "/etc", "/etc/ssh", "/proc", "/root"}
	for _, p := range reserved {
		if !IsReservedDirectory(p) {
			t.Errorf("IsReservedDirectory(%q) = false, want true", p)
		}
	}
	if IsReservedDirectory(t.TempDir()) {
		t.Error("temp dir must not be reserved")
	}
}

func TestValidatePathInHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	rel, err := ValidatePathInHome(filepath.Join(home, "vault", "notes"))
	if err != nil {
		t.Fatalf("ValidatePathInHome: %v", err)
	}
	if rel != filepath.Join("vault", "notes") {
		t.Errorf("rel = %q", rel)
	}

	if _, err := ValidatePathInHome("/somewhere/else"); err == nil {
		t.Error("path outside home: expected error")
	}
}
