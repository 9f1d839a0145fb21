package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/userscan/internal/config"
)

//go:embed templates/sites.yaml
var catalogTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter site catalog",
		Long: `Init writes a starter sites.yaml catalog to the user configuration
directory (~/.config/userscan on Linux). The scan command picks it up
automatically.

The generated file includes:
- A handful of popular sites covering all detection modes
- Commented documentation for every catalog field

Examples:
  # Create the catalog in the default location
  userscan init

  # Create the catalog at a specific path
  userscan init -o ./sites.yaml

  # Force overwrite an existing catalog
  userscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path for the catalog (default: XDG config dir)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing catalog file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = filepath.Join(config.XDGConfigDir(), "sites.yaml")
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("catalog file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := catalogTemplate.ReadFile("templates/sites.yaml")
	if err != nil {
		return fmt.Errorf("failed to read catalog template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created site catalog: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to add sites or adjust detection rules, then run:")
	fmt.Fprintln(cmd.OutOrStdout(), "  userscan scan <username>")

	return nil
}
