package main

import (
	"fmt"
	"os"

	"lorekeeper/internal/clients"
	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"

	"github.com/spf13/cobra"
)

var installBinary string

var installCmd = &cobra.Command{
	Use:   "install [client]",
	Short: "Print the MCP configuration snippet for a client",
	Long: `Print the JSON snippet that registers lorekeeper in an MCP
client's configuration file. Without an argument, lists the supported
clients.

Examples:
  # List supported clients
  lorekeeper install

  # Snippet for Claude Desktop
  lorekeeper install "Claude Desktop"

  # Use an explicit binary path
  lorekeeper install Cursor --binary /usr/local/bin/lorekeeper`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installBinary, "binary", "", "path to the lorekeeper binary (defaults to the running executable)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Supported clients:")
		for _, c := range clients.GetAllClientConfigs() {
			fmt.Printf("  %-16s %s\n", c.Name, c.DisplayConfigPath())
		}
		fmt.Println("\nRun 'lorekeeper install <client>' for the configuration snippet.")
		return nil
	}

	client, ok := clients.FindClientConfig(args[0])
	if !ok {
		return fmt.Errorf("unknown client %q - run 'lorekeeper install' to list supported clients", args[0])
	}

	binary := installBinary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("cannot determine binary path, pass --binary: %w", err)
		}
		binary = exe
	}

	// Carry the vault location into the snippet so the client starts the
	// server against the same vault this command sees.
	env := map[string]string{}
	logger := logging.NewAppLogger()
	if cfg, err := loadConfig(logger); err == nil && cfg.VaultDir != "" {
		env[config.EnvVaultDir] = cfg.VaultDir
	}

	snippet, err := client.Snippet(binary, env)
	if err != nil {
		return err
	}

	fmt.Printf("Add this to %s:\n\n%s\n", client.ResolvedConfigPath(), snippet)
	return nil
}
