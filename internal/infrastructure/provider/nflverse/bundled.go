package nflverse

import (
	"context"

	"github.com/nflverse/nflassets/internal/domain/player"
)

// Bundled is the fallback Provider used when the dataset is disabled,
// unreachable, or the process is offline. It carries a handful of
// marquee players so name and ID resolution still works end to end.
type Bundled struct{}

func NewBundled() *Bundled {
	return &Bundled{}
}

func (*Bundled) Available(context.Context) bool {
	return true
}

func (*Bundled) LoadIdentities(context.Context) ([]player.Identity, error) {
	return bundledIdentities(), nil
}

func bundledIdentities() []player.Identity {
	return []player.Identity{
		{
			Name: "Patrick Mahomes", Team: "KC", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0033873", player.SchemeESPN: "3139477"},
		},
		{
			Name: "Josh Allen", Team: "BUF", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0034857", player.SchemeESPN: "3918298"},
		},
		{
			Name: "Lamar Jackson", Team: "BAL", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0034796", player.SchemeESPN: "3916387"},
		},
		{
			Name: "Dak Prescott", Team: "DAL", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0033077", player.SchemeESPN: "2577417"},
		},
		{
			Name: "Tua Tagovailoa", Team: "MIA", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0036212", player.SchemeESPN: "4241479"},
		},
		{
			Name: "Kyler Murray", Team: "ARI", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0035228", player.SchemeESPN: "3917315"},
		},
		{
			Name: "Aaron Rodgers", Team: "NYJ", Position: "QB", LatestSeason: 2024,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0023459", player.SchemeESPN: "8439"},
		},
		{
			Name: "Russell Wilson", Team: "DEN", Position: "QB", LatestSeason: 2023,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0029263", player.SchemeESPN: "14881"},
		},
		{
			Name: "Tom Brady", Team: "TB", Position: "QB", LatestSeason: 2022,
			IDs: map[player.Scheme]string{player.SchemeGSIS: "00-0019596", player.SchemeESPN: "2330"},
		},
	}
}
