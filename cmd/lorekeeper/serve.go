package main

import (
	"lorekeeper/internal/logging"
	"lorekeeper/internal/mcp"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vault to MCP clients over stdio",
	Long: `Start the MCP server on stdin/stdout. This is the command MCP
clients run; it is not meant to be used interactively.

The server exposes five read-only tools: list_locations, get_location,
list_characters, get_character and get_story_so_far.

Examples:
  # As configured in an MCP client
  lorekeeper serve

  # Pointing at an explicit vault
  LOREKEEPER_VAULT_DIR=~/campaign lorekeeper serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Stdout belongs to the MCP transport; logs go to stderr or the
	// debug file.
	logger := logging.NewAppLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	return server.Serve()
}
