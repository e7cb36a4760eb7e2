package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/listmembers/internal/config"
	"github.com/rshade/listmembers/internal/source/cache"
)

const bytesPerKB = 1024

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
		Long:  "Inspect and clear the on-disk cache of fetched member pages.",
	}
	cmd.AddCommand(newCacheClearCmd(), newCacheStatsCmd(), newCachePruneCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var listURI string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages",
		Example: `  # Remove every cached page
  listmembers cache clear

  # Remove the cached pages of one list
  listmembers cache clear --list at://did:plc:owner/app.bsky.graph.list/3k`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(config.GetGlobalConfig())
			if err != nil {
				return err
			}
			if !store.Enabled() {
				cmd.Println("Cache is disabled")
				return nil
			}

			var removed int
			if listURI != "" {
				removed, err = store.DeletePrefix(cache.ListPrefix(listURI))
			} else {
				removed, err = store.Clear()
			}
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			logger.Debug().Ctx(cmd.Context()).Int("removed", removed).Str("list", listURI).Msg("cache cleared")
			cmd.Printf("Removed %d cached page(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().StringVar(&listURI, "list", "", "only remove pages of this list")
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location, entry count and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			if !store.Enabled() {
				cmd.Println("Cache is disabled")
				return nil
			}
			count, err := store.Count()
			if err != nil {
				return err
			}
			size, err := store.Size()
			if err != nil {
				return err
			}
			cmd.Printf("Directory: %s\n", store.Dir())
			cmd.Printf("Entries:   %d\n", count)
			cmd.Printf("Size:      %.1f KB\n", float64(size)/bytesPerKB)
			cmd.Printf("TTL:       %ds\n", cfg.Cache.TTLSeconds)
			return nil
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(config.GetGlobalConfig())
			if err != nil {
				return err
			}
			if !store.Enabled() {
				cmd.Println("Cache is disabled")
				return nil
			}
			removed, err := store.CleanupExpired()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			cmd.Printf("Removed %d expired page(s)\n", removed)
			return nil
		},
	}
}
