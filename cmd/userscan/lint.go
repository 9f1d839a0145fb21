package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/config"
)

// NewLintCmd creates the lint command.
func NewLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [CATALOG]",
		Short: "Validate a site catalog without probing anything",
		Long: `Lint loads a site catalog and reports every defective entry: missing
or duplicated username placeholders, uncompilable patterns, invalid
status ranges, and method/mode conflicts.

No network requests are made. The command exits non-zero when the
catalog contains defects, so it is suitable for CI.

Examples:
  # Validate the default catalog
  userscan lint

  # Validate a specific catalog file
  userscan lint ./sites.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLintCmd,
	}

	return cmd
}

// runLintCmd executes the lint command.
func runLintCmd(cmd *cobra.Command, args []string) error {
	explicit := ""
	if len(args) == 1 {
		explicit = args[0]
	}

	path := config.FindCatalog(explicit)
	if path == "" {
		if explicit != "" {
			return fmt.Errorf("%w: %s", ErrCatalogNotFound, explicit)
		}
		return ErrCatalogNotFound
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	invalid := cat.InvalidSites()
	valid := cat.Len() - len(invalid)

	fmt.Fprintf(cmd.OutOrStdout(), "Catalog: %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Sites:   %d valid, %d invalid\n", valid, len(invalid))

	if len(invalid) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo defects found.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout())
	for _, site := range invalid {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", site.Name, site.Invalid)
	}

	return fmt.Errorf("catalog contains %d defective site(s)", len(invalid))
}
