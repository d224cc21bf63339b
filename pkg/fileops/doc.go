// Package fileops provides secure, read-only filesystem primitives for
// walking and validating markdown vault trees.
//
// The central piece is ScanNotes, a recursive scanner confined to an
// os.Root so that no traversal or symlink trick can pull entries from
// outside the scanned directory. Around it sit path helpers shared by the
// configuration and vault-sync layers: home expansion, reserved system
// directory detection, and storage path validation.
//
// Nothing in this package writes to the filesystem.
package fileops
