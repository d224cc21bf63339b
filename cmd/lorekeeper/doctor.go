package main

import (
	"fmt"
	"os"
	"path/filepath"

	"lorekeeper/internal/config"
	"lorekeeper/internal/logging"
	"lorekeeper/internal/vault"
	"lorekeeper/internal/vaultsync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the vault and configuration for problems",
	Long: `Inspect the configuration, the three vault sections and the
credential store, and report anything an MCP client would trip over.

Examples:
  lorekeeper doctor`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	logger := logging.NewAppLogger()

	if path, found := config.FindConfigFile(); found {
		fmt.Printf("ok   config file: %s\n", path)
	} else {
		fmt.Println("--   config file: not found (environment variables only)")
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		fmt.Printf("FAIL configuration: %v\n", err)
		return fmt.Errorf("configuration is unusable")
	}

	// The three sections are independent; check them concurrently.
	var (
		g             errgroup.Group
		locationsLine string
		charsLine     string
		storyLine     string
	)

	g.Go(func() error {
		catalog := vault.NewLocationCatalog(cfg.LocationsRoot())
		names, err := catalog.List()
		if err != nil {
			locationsLine = fmt.Sprintf("FAIL locations (%s): %v", catalog.Dir(), err)
			return err
		}
		locationsLine = fmt.Sprintf("ok   locations (%s): %d notes", catalog.Dir(), len(names))
		return nil
	})

	g.Go(func() error {
		dir := vault.NewCharacterDirectory(cfg.CharactersRoot())
		grouped, err := dir.List()
		if err != nil {
			charsLine = fmt.Sprintf("FAIL characters (%s): %v", dir.Root(), err)
			return err
		}
		total := 0
		for _, names := range grouped {
			total += len(names)
		}
		charsLine = fmt.Sprintf("ok   characters (%s): %d characters in %d organizations", dir.Root(), total, len(grouped))
		return nil
	})

	g.Go(func() error {
		log := vault.NewSessionLog(cfg.SessionsRoot())
		storyPath := filepath.Join(log.Dir(), vault.StoryFileName)
		if _, err := os.Stat(storyPath); err != nil {
			if os.IsNotExist(err) {
				storyLine = fmt.Sprintf("--   story summary: %s not found", storyPath)
				return nil
			}
			storyLine = fmt.Sprintf("FAIL story summary (%s): %v", storyPath, err)
			return err
		}
		storyLine = fmt.Sprintf("ok   story summary: %s", storyPath)
		return nil
	})

	checkErr := g.Wait()

	fmt.Println(locationsLine)
	fmt.Println(charsLine)
	fmt.Println(storyLine)

	if vaultsync.NewCredentialManager().HasGitHubToken() {
		fmt.Println("ok   credential store: GitHub token present")
	} else {
		fmt.Println("--   credential store: no GitHub token (public vaults only)")
	}

	if checkErr != nil {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("\nVault looks healthy.")
	return nil
}
