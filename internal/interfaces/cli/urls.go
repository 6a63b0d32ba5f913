package cli

import (
	"github.com/spf13/cobra"

	"github.com/nflverse/nflassets/internal/usecase"
)

func newURLsCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Work with the managed artwork source URLs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newURLsCheckCmd(c))

	return cmd
}

func newURLsCheckCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "HEAD-probe every managed URL and report the broken ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timeout, err := cmd.Flags().GetDuration(flagTimeout)
			if err != nil {
				return err
			}
			spacing, err := cmd.Flags().GetDuration(flagSpacing)
			if err != nil {
				return err
			}
			workers, err := cmd.Flags().GetInt(flagWorkers)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = c.app.Config.URLCheckWorkers
			}

			result, err := c.app.URLCheck.Check(cmd.Context(), usecase.URLCheckInput{
				Timeout:    timeout,
				Spacing:    spacing,
				MaxWorkers: workers,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().Duration(flagTimeout, 0, "per-probe timeout (default 10s)")
	cmd.Flags().Duration(flagSpacing, 0, "gap between probe launches (default 100ms)")
	cmd.Flags().Int(flagWorkers, 0, "concurrent probes (default from NFLASSETS_URLCHECK_WORKERS)")

	return cmd
}
