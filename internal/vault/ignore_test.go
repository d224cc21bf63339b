package vault

import "testing"

func TestIsReserved(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"__story_so_far.md", true},
		{"__tables", true},
		{"__", true},
		{"_single_underscore.md", false},
		{"Waterdeep.md", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsReserved(tt.filename); got != tt.want {
			t.Errorf("IsReserved(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestIsVaultNote(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"Waterdeep.md", true},
		{"Baldur's Gate.md", true},
		{"__story_so_far.md", false},
		{"notes.txt", false},
		{"map.png", false},
		// Only the exact lowercase extension round-trips through
		// list-then-get, so other spellings are not notes.
		{"README.MD", false},
		{"guide.markdown", false},
		{"Waterdeep", false},
	}
	for _, tt := range tests {
		if got := IsVaultNote(tt.filename); got != tt.want {
			t.Errorf("IsVaultNote(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Waterdeep.md", "Waterdeep"},
		{"Baldur's Gate.md", "Baldur's Gate"},
		{"no-extension", "no-extension"},
	}
	for _, tt := range tests {
		if got := NoteName(tt.filename); got != tt.want {
			t.Errorf("NoteName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
