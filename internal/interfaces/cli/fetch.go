package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nflverse/nflassets/internal/usecase"
)

func newFetchCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <kind> <token>",
		Short: "Materialize one asset in the cache and print its handle",
		Example: `  # Team artwork by any team reference
  nflassets fetch logo KC
  nflassets fetch wordmark "San Diego"

  # A headshot by player name or id
  nflassets fetch headshot "Patrick Mahomes"
  nflassets fetch headshot 00-0033873 --hint gsis

  # Redownload even though the cached copy is still fresh
  nflassets fetch logo KC --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, err := cmd.Flags().GetString(flagHint)
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool(flagForce)
			if err != nil {
				return err
			}

			handle, err := c.app.Assets.Fetch(cmd.Context(), usecase.FetchAssetInput{
				Kind:       args[0],
				Token:      args[1],
				SchemeHint: hint,
				Force:      force,
			})
			if err != nil {
				return fmt.Errorf("fetch %s %q: %w", args[0], args[1], err)
			}

			return writeJSON(cmd, newHandleRow(handle))
		},
	}

	cmd.Flags().String(flagHint, "", "id scheme to try first: gsis, espn, or nfl")
	cmd.Flags().Bool(flagForce, false, "refresh even when the cached copy is fresh")

	return cmd
}
