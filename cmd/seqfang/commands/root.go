// Package commands implements CLI command handlers for seqfang.
package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seqfang/pkg/version"
)

// Persistent flag names shared by every subcommand.
const (
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// NewRootCommand builds the seqfang command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "seqfang",
		Short: "seqfang - sequential pattern mining with PrefixSpan",
		Long: `seqfang mines frequent sequential patterns from sequence databases.

Commands:
  mine      Mine frequent sequential patterns
  stats     Profile a sequence database
  diff      Compare two pattern outputs
  validate  Validate a JSON pattern output
  mcp       Start the MCP server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(NewMineCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seqfang %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

// persistentBool reads an inherited flag, treating a missing flag as false
// so subcommands also work outside the root tree.
func persistentBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return value
}

// applyColor overrides fatih/color terminal detection when requested.
func applyColor(noColor bool) {
	if noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}
}
