package cli

import (
	"github.com/spf13/cobra"
)

func newCacheCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the on-disk asset cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newCacheInfoCmd(c),
		newCacheClearCmd(c),
		newCacheEvictCmd(c),
	)

	return cmd
}

func newCacheInfoCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report cache root, per-kind counts, and byte totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := c.app.Assets.CacheInfo(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		},
	}
}

func newCacheClearCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached assets, all of them or one kind",
		Example: `  nflassets cache clear
  nflassets cache clear --kind logo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := cmd.Flags().GetString(flagKind)
			if err != nil {
				return err
			}

			removed, err := c.app.Assets.ClearCache(cmd.Context(), kind)
			if err != nil {
				return err
			}

			return writeJSON(cmd, cacheClearRow{Kind: kind, Removed: removed})
		},
	}

	cmd.Flags().String(flagKind, "", "limit the clear to one kind: logo, wordmark, or headshot")

	return cmd
}

func newCacheEvictCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "evict",
		Short: "Apply the age and size budgets to the cache now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Assets.EvictCache(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
}
