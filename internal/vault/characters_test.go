package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// newTestDirectory builds a characters tree from relative file paths.
func newTestDirectory(t *testing.T, files map[string]string) *CharacterDirectory {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return NewCharacterDirectory(root)
}

func TestCharacterDirectoryList(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Harpers/Mirt.md":                "Moneylender.",
		"Harpers/Remallia.md":            "Noble.",
		"Zhentarim/Agents/Davil.md":      "Fixer.",
		"Zhentarim/Agents/__template.md": "reserved file, ignored",
		"__drafts/Unfinished.md":         "reserved dir, ignored entirely",
		"Zhentarim/notes.txt":            "not markdown",
		"Stray.md":                       "root-level file, no organization",
	})

	got, err := dir.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := map[string][]string{
		"Harpers":          {"Mirt", "Remallia"},
		"Zhentarim/Agents": {"Davil"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestCharacterDirectoryListEmptyOrgsOmitted(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Harpers/Mirt.md": "x",
	})
	// An organization directory with no notes should not appear.
	if err := os.MkdirAll(filepath.Join(dir.Root(), "Emerald Enclave"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := dir.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, ok := got["Emerald Enclave"]; ok {
		t.Error("empty organization must be omitted from the listing")
	}
}

func TestCharacterDirectoryListMissingRoot(t *testing.T) {
	dir := NewCharacterDirectory(filepath.Join(t.TempDir(), "absent"))

	got, err := dir.List()
	if err != nil {
		t.Fatalf("List on missing root: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List = %v, want empty map", got)
	}
}

func TestCharacterDirectoryGet(t *testing.T) {
	const content = "# Mirt\n\nRetired adventurer and moneylender."
	dir := newTestDirectory(t, map[string]string{
		"Harpers/Mirt.md":           content,
		"Zhentarim/Agents/Davil.md": "Fixer.",
	})

	got, err := dir.Get("Mirt", "Harpers")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != content {
		t.Errorf("Get = %q, want %q", got, content)
	}

	got, err = dir.Get("Davil", "Zhentarim/Agents")
	if err != nil {
		t.Fatalf("Get nested: %v", err)
	}
	if got != "Fixer." {
		t.Errorf("Get nested = %q", got)
	}
}

func TestCharacterDirectoryGetNotFound(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Harpers/Mirt.md": "x",
	})

	// Wrong organization for an existing character.
	if _, err := dir.Get("Mirt", "Zhentarim"); !IsNotFound(err) {
		t.Errorf("Get(wrong org) error = %v, want NotFound", err)
	}
	// Unknown character in an existing organization.
	if _, err := dir.Get("Jarlaxle", "Harpers"); !IsNotFound(err) {
		t.Errorf("Get(unknown name) error = %v, want NotFound", err)
	}
}

func TestCharacterDirectoryGetReserved(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Harpers/__template.md":  "hidden",
		"__drafts/Unfinished.md": "hidden",
	})

	// Reserved file addressed exactly.
	if _, err := dir.Get("__template", "Harpers"); !IsNotFound(err) {
		t.Errorf("Get(reserved file) error = %v, want NotFound", err)
	}
}

func TestCharacterDirectoryGetInvalidOrgPath(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Harpers/Mirt.md": "x",
	})

	for _, orgPath := range []string{"", "/Harpers", "Harpers/", "a//b", "..", "Harpers/../Zhentarim"} {
		_, err := dir.Get("Mirt", orgPath)
		if !IsInvalidArgument(err) {
			t.Errorf("Get(org %q) error = %v, want InvalidArgument", orgPath, err)
		}
	}
}

func TestCharacterDirectoryOrganizations(t *testing.T) {
	dir := newTestDirectory(t, map[string]string{
		"Zhentarim/Agents/Davil.md": "x",
		"Harpers/Mirt.md":           "x",
	})

	got, err := dir.Organizations()
	if err != nil {
		t.Fatalf("Organizations: %v", err)
	}
	want := []string{"Harpers", "Zhentarim/Agents"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Organizations = %v, want %v", got, want)
	}
}
