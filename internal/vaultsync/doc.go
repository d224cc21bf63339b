// Package vaultsync keeps a local copy of a campaign vault in sync with
// its source. A vault can live in a plain local directory or in a Git
// repository; both are abstracted behind the Source interface, which
// resolves to a local filesystem path the server can read.
//
// Git-backed vaults are cloned on first use and fetched on subsequent
// syncs. Private repositories authenticate with a GitHub Personal Access
// Token held in the OS credential store; public repositories need no
// credentials and are always tried first.
package vaultsync
