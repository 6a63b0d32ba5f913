package cli

import (
	"github.com/spf13/cobra"

	"github.com/nflverse/nflassets/internal/usecase"
)

func newWarmCmd(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch artwork for many entities in one bounded run",
		Example: `  # Logos and wordmarks for the whole league
  nflassets warm

  # Only logos, only two teams
  nflassets warm --kind logo --teams KC,BUF

  # Headshots need explicit players
  nflassets warm --kind headshot --players "Patrick Mahomes,Josh Allen"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds, err := cmd.Flags().GetStringSlice(flagKind)
			if err != nil {
				return err
			}
			teams, err := cmd.Flags().GetStringSlice(flagTeams)
			if err != nil {
				return err
			}
			players, err := cmd.Flags().GetStringSlice(flagPlayers)
			if err != nil {
				return err
			}
			workers, err := cmd.Flags().GetInt(flagWorkers)
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool(flagForce)
			if err != nil {
				return err
			}

			result, err := c.app.Warm.Warm(cmd.Context(), usecase.WarmInput{
				Kinds:      kinds,
				Teams:      teams,
				Players:    players,
				MaxWorkers: workers,
				Force:      force,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringSlice(flagKind, nil, "asset kinds to warm (default logo,wordmark)")
	cmd.Flags().StringSlice(flagTeams, nil, "team references to warm (default the whole league)")
	cmd.Flags().StringSlice(flagPlayers, nil, "player references for headshot warming")
	cmd.Flags().Int(flagWorkers, 0, "concurrent downloads (default from NFLASSETS_WARM_WORKERS)")
	cmd.Flags().Bool(flagForce, false, "refresh entries even when still fresh")

	return cmd
}
