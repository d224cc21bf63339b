// Package vault implements read-only lookups over a campaign vault of
// markdown files.
//
// A vault has three roots, injected at construction time:
//
//   - a flat locations directory, resolved by LocationCatalog
//   - a recursive characters tree grouped by organization directories,
//     resolved by CharacterDirectory
//   - a sessions directory holding the fixed story-so-far note, read by
//     SessionLog
//
// All lookups re-read the filesystem on every call; nothing is cached, so
// results always reflect the on-disk state at call time. The package never
// writes to the vault.
//
// Filenames starting with the reserved "__" prefix are internal vault data
// and are excluded from every listing and lookup.
package vault
