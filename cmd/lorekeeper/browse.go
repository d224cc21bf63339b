package main

import (
	"fmt"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/tui"
	"lorekeeper/internal/tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the vault interactively",
	Long: `Open a terminal browser over the vault: locations, characters and
the story summary, with filtering and a live markdown preview.

Examples:
  lorekeeper browse`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := logging.NewAppLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("vault validation failed: %w", err)
	}

	// Dimensions arrive via the first WindowSizeMsg.
	ctx := helpers.NewUIContext(0, 0, cfg, logger)
	program := tea.NewProgram(tui.NewBrowseModel(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
