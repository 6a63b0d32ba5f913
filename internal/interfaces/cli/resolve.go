package cli

import (
	"github.com/spf13/cobra"
)

func newResolveCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <query> [query...]",
		Short: "Resolve team and player references to canonical identities",
		Example: `  # Teams by abbreviation, alias, or full name
  nflassets resolve SD oak "Kansas City Chiefs"

  # Players by name or id, with the id scheme pinned
  nflassets resolve "Patrick Mahomes"
  nflassets resolve 00-0033873 --hint gsis`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, err := cmd.Flags().GetString(flagHint)
			if err != nil {
				return err
			}

			resolutions := c.app.Resolver.ResolveAll(cmd.Context(), args, hint)
			return writeJSON(cmd, newResolutionRows(resolutions))
		},
	}

	cmd.Flags().String(flagHint, "", "id scheme to try first: gsis, espn, or nfl")

	return cmd
}
