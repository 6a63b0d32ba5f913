package cli

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/usecase"
)

// writeJSON renders a command result on stdout. Logs stay on stderr so the
// two streams can be piped independently.
func writeJSON(cmd *cobra.Command, payload any) error {
	enc := sonic.ConfigDefault.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

type teamRow struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type playerRow struct {
	Name         string            `json:"name"`
	Team         string            `json:"team,omitempty"`
	Position     string            `json:"position,omitempty"`
	LatestSeason int               `json:"latest_season,omitempty"`
	IDs          map[string]string `json:"ids"`
}

type resolutionRow struct {
	Query     string     `json:"query"`
	Entity    string     `json:"entity"`
	Method    string     `json:"method"`
	Team      *teamRow   `json:"team,omitempty"`
	Player    *playerRow `json:"player,omitempty"`
	Scheme    string     `json:"scheme,omitempty"`
	Score     float64    `json:"score,omitempty"`
	Ambiguous bool       `json:"ambiguous,omitempty"`
}

type handleRow struct {
	Kind        string    `json:"kind"`
	Slug        string    `json:"slug"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type,omitempty"`
	Source      string    `json:"source,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Bytes       int64     `json:"bytes"`
	Stale       bool      `json:"stale,omitempty"`
}

type cacheClearRow struct {
	Kind    string `json:"kind,omitempty"`
	Removed int    `json:"removed"`
}

func newResolutionRows(resolutions []usecase.Resolution) []resolutionRow {
	rows := make([]resolutionRow, 0, len(resolutions))
	for _, res := range resolutions {
		row := resolutionRow{
			Query:     res.Query,
			Entity:    string(res.Entity),
			Method:    string(res.Method),
			Scheme:    string(res.Scheme),
			Score:     res.Score,
			Ambiguous: res.Ambiguous,
		}
		if res.Team != nil {
			row.Team = &teamRow{
				Abbreviation: res.Team.Abbreviation,
				Name:         res.Team.Name,
				Nickname:     res.Team.Nickname,
				Conference:   string(res.Team.Conference),
				Division:     res.Team.Division,
			}
		}
		if res.Player != nil {
			ids := make(map[string]string, len(res.Player.IDs))
			for scheme, id := range res.Player.IDs {
				ids[string(scheme)] = id
			}
			row.Player = &playerRow{
				Name:         res.Player.Name,
				Team:         res.Player.Team,
				Position:     res.Player.Position,
				LatestSeason: res.Player.LatestSeason,
				IDs:          ids,
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func newHandleRow(handle asset.Handle) handleRow {
	return handleRow{
		Kind:        string(handle.Key.Kind),
		Slug:        handle.Key.Slug,
		Path:        handle.Path,
		ContentType: handle.ContentType,
		Source:      handle.Source,
		FetchedAt:   handle.FetchedAt,
		Bytes:       handle.Size,
		Stale:       handle.Stale,
	}
}
