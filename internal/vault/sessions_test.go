package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionLogStorySoFar(t *testing.T) {
	dir := t.TempDir()
	const content = "# The Story So Far\n\nThe party reached Waterdeep.\n"
	if err := os.WriteFile(filepath.Join(dir, StoryFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewSessionLog(dir).StorySoFar()
	if err != nil {
		t.Fatalf("StorySoFar: %v", err)
	}
	if got != content {
		t.Errorf("StorySoFar = %q, want exact content %q", got, content)
	}
}

func TestSessionLogStoryMissing(t *testing.T) {
	if _, err := NewSessionLog(t.TempDir()).StorySoFar(); !IsNotFound(err) {
		t.Errorf("StorySoFar without note: error = %v, want NotFound", err)
	}
}

func TestSessionLogDirMissing(t *testing.T) {
	log := NewSessionLog(filepath.Join(t.TempDir(), "absent"))
	if _, err := log.StorySoFar(); !IsNotFound(err) {
		t.Errorf("StorySoFar without directory: error = %v, want NotFound", err)
	}
}

func TestSessionLogIgnoresOtherNotes(t *testing.T) {
	// Other files in the sessions directory never shadow the story note.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session-12.md"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewSessionLog(dir).StorySoFar(); !IsNotFound(err) {
		t.Errorf("StorySoFar = %v, want NotFound when only other notes exist", err)
	}
}
