package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/ax/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example collection and config file",
	Long: `Initialize ax in the current directory.

This creates:
  - .ax.yaml         - Configuration file with default settings
  - collection.json  - Example collection with two requests

Examples:
  ax init
  ax init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleCollection = `[
  {
    "name": "health",
    "url": "https://httpbin.org/get",
    "method": "GET",
    "headers": ["Accept: application/json"],
    "print": ["status_code", "body"]
  },
  {
    "name": "create",
    "url": "https://httpbin.org/post",
    "method": "POST",
    "headers": ["Content-Type: application/json"],
    "data": {
      "name": "Test Resource",
      "description": "Created by ax"
    },
    "print": ["status_code", "status_text", "headers", "body"]
  }
]
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigName+".yaml")
	collectionFile := filepath.Join(cwd, "collection.json")

	if !forceInit {
		for _, f := range []string{configFile, collectionFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Headers = []string{"User-Agent: ax/" + version}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(collectionFile, []byte(exampleCollection), 0644); err != nil {
		return fmt.Errorf("failed to create collection file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", collectionFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nax initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'ax -c collection.json' to send the example requests.\n")

	return nil
}
