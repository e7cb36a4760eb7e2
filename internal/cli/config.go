package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/listmembers/internal/config"
)

// ErrConfigExists is returned by config init when the file is already present.
var ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may be missing or invalid here, so logging starts from
		// defaults instead of loading it.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd, config.New())
			return nil
		},
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ~/.listmembers/config.yaml
  listmembers config init

  # Overwrite an existing file
  listmembers config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configPathFlag(cmd)
			if err != nil {
				return err
			}

			if !force {
				_, statErr := os.Stat(path)
				if statErr == nil {
					return ErrConfigExists
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if err = config.New().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration file, .env and LISTMEMBERS_* environment variables
and checks the result: log level and format, page size, prefetch threshold,
cache TTL and analytics buffer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Println("Configuration is valid")
			cmd.Printf("  database:  %s\n", cfg.Source.Database)
			cmd.Printf("  page size: %d\n", cfg.Source.PageSize)
			if cfg.Cache.Enabled {
				cmd.Printf("  cache:     %s (ttl %ds)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds)
			} else {
				cmd.Println("  cache:     disabled")
			}
			return nil
		},
	}
}

// configPathFlag returns --config, or the default config file path.
func configPathFlag(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}
