package main

import (
	"fmt"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/vaultsync"

	"github.com/spf13/cobra"
)

var (
	syncToken       string
	syncDeleteToken bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the vault from its git remote",
	Long: `Clone or update the vault from the git remote configured as
vault_source in the config file. Local uncommitted changes are never
discarded; a dirty vault skips the sync with a warning.

Private repositories authenticate with a GitHub Personal Access Token
kept in the OS credential store.

Examples:
  # Clone or update the configured vault
  lorekeeper sync

  # Store a token for private vaults
  lorekeeper sync --token ghp_xxxxxxxxxxxxxxxxxxxx

  # Remove the stored token
  lorekeeper sync --delete-token`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncToken, "token", "", "store a GitHub Personal Access Token and exit")
	syncCmd.Flags().BoolVar(&syncDeleteToken, "delete-token", false, "delete the stored token and exit")
}

func runSync(cmd *cobra.Command, args []string) error {
	logger := logging.NewAppLogger()

	if syncToken != "" {
		if err := vaultsync.NewCredentialManager().StoreGitHubToken(syncToken); err != nil {
			return err
		}
		fmt.Println("Token stored.")
		return nil
	}
	if syncDeleteToken {
		if err := vaultsync.NewCredentialManager().DeleteGitHubToken(); err != nil {
			return err
		}
		fmt.Println("Token deleted.")
		return nil
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	if cfg.VaultSource == "" {
		return fmt.Errorf("no vault_source configured - set a git remote in the config file to use sync")
	}

	var branch *string
	if cfg.VaultBranch != "" {
		branch = &cfg.VaultBranch
	}

	source := vaultsync.NewGitSource(cfg.VaultSource, branch, cfg.VaultDir)
	path, info, err := source.Prepare(logger)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", info.Message, path)
	return nil
}
