package fileops

import (
	"os"
	"path/filepath"
	"testing"
)

func makeLink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestIsSymlink(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.md")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.md")
	makeLink(t, file, link)

	if got, err := IsSymlink(file); err != nil || got {
		t.Errorf("IsSymlink(plain) = %v, %v; want false, nil", got, err)
	}
	if got, err := IsSymlink(link); err != nil || !got {
		t.Errorf("IsSymlink(link) = %v, %v; want true, nil", got, err)
	}
	if _, err := IsSymlink(filepath.Join(dir, "absent")); err == nil {
		t.Error("IsSymlink(missing) should error")
	}
}

func TestResolveSymlink(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "target.md")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.md")
	makeLink(t, file, link)

	resolved, err := ResolveSymlink(link)
	if err != nil {
		t.Fatalf("ResolveSymlink: %v", err)
	}
	wantTarget, err := filepath.EvalSymlinks(file)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != wantTarget {
		t.Errorf("resolved = %q, want %q", resolved, wantTarget)
	}
}

func TestValidateSymlinkSecurity(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "inside.md")
	if err := os.WriteFile(inside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "outside.md")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	okLink := filepath.Join(base, "ok")
	makeLink(t, inside, okLink)
	badLink := filepath.Join(base, "bad")
	makeLink(t, outside, badLink)

	if err := ValidateSymlinkSecurity(okLink, []string{base}); err != nil {
		t.Errorf("link inside base rejected: %v", err)
	}
	if err := ValidateSymlinkSecurity(badLink, []string{base}); err == nil {
		t.Error("link escaping base accepted")
	}
	if err := ValidateSymlinkSecurity(inside, []string{base}); err == nil {
		t.Error("plain file accepted as symlink")
	}
}
