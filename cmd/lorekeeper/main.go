// Package main implements the lorekeeper CLI: an MCP server plus
// supporting commands for a markdown campaign vault.
//
// The vault is a directory with three sections: Locations/ (flat
// directory of location notes), Characters/ (notes nested under
// organization directories) and Sessions/ (session logs plus the
// __story_so_far.md summary). `lorekeeper serve` exposes the vault to
// MCP clients over stdio; the remaining commands manage the vault and
// its client integrations.
package main

import (
	"fmt"
	"os"

	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lorekeeper",
	Short: "MCP server for a markdown campaign vault",
	Long: `lorekeeper serves a tabletop campaign vault (markdown notes for
locations, characters and session logs) to MCP clients such as Claude
Desktop, Claude Code and Cursor.

The vault location comes from the config file or the
LOREKEEPER_VAULT_DIR environment variable.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(installCmd)
}

// loadConfig loads the vault configuration shared by all subcommands.
func loadConfig(logger *logging.AppLogger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded",
		"locations", cfg.LocationsRoot(),
		"characters", cfg.CharactersRoot(),
		"sessions", cfg.SessionsRoot())
	return cfg, nil
}
