package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for userscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userscan",
		Short: "Check username availability across hundreds of websites",
		Long: `userscan probes a catalog of websites concurrently and reports where a
given username is registered. Detection combines HTTP status codes with
per-site body patterns, so sites that answer 200 for every page are
handled correctly.

Results distinguish found, not found, and uncertain: a site that could
not be classified confidently is never silently counted as a hit.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewLintCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
