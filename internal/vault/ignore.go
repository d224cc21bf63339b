package vault

import (
	"path/filepath"
	"strings"
)

// ReservedPrefix marks a filename as internal vault data (tables, session
// bookkeeping, the story-so-far note). Reserved files never appear in
// listings and are never retrievable, at any depth.
const ReservedPrefix = "__"

// MarkdownExt is the one extension the vault contract recognizes. Listings
// return filename stems and lookups append this extension verbatim, so any
// other spelling (.markdown, .MD) would break the list/get round trip.
const MarkdownExt = ".md"

// IsReserved reports whether filename carries the reserved prefix.
func IsReserved(filename string) bool {
	return strings.HasPrefix(filename, ReservedPrefix)
}

// IsVaultNote reports whether filename is a non-reserved markdown note.
func IsVaultNote(filename string) bool {
	return filepath.Ext(filename) == MarkdownExt && !IsReserved(filename)
}

// NoteName returns the display name of a markdown file: the filename with
// the extension stripped.
func NoteName(filename string) string {
	return strings.TrimSuffix(filename, MarkdownExt)
}
