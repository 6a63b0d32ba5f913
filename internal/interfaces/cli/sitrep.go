package cli

import (
	"github.com/spf13/cobra"
)

func newSitrepCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "sitrep",
		Short: "Print a point-in-time snapshot of the toolkit",
		Long: `sitrep reports the offline flag, identity source and index size, the
fuzzy match threshold, cache totals, and current circuit breaker states.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Sitrep.Get(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}
}
