// Package cli implements the listmembers command line.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/listmembers/internal/config"
	"github.com/rshade/listmembers/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Set once per command in setupLogging.

// NewRootCmd creates the root command.
func NewRootCmd(ver string) *cobra.Command {
	var (
		configPath string
		logResult  *logging.LogPathResult
	)

	cmd := &cobra.Command{
		Use:           "listmembers",
		Short:         "Browse and curate the members of a list",
		Long:          "listmembers pages through the members of a user-curated list, with refresh, infinite scroll and owner-only membership edits.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.listmembers/config.yaml)")
	cmd.AddCommand(newMembersCmd(), newSeedCmd(), newCacheCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Create a demo list with 120 members
  listmembers seed --members 120

  # Browse a list interactively
  listmembers members at://did:plc:owner/app.bsky.graph.list/3k

  # Print the first three pages as plain text
  listmembers members at://did:plc:owner/app.bsky.graph.list/3k --plain --max-pages 3

  # Drop cached pages
  listmembers cache clear`
