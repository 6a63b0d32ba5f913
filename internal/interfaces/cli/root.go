package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nflverse/nflassets/internal/app"
	"github.com/nflverse/nflassets/internal/config"
	"github.com/nflverse/nflassets/internal/observability"
	"github.com/nflverse/nflassets/internal/platform/logging"
)

const (
	flagOffline  = "offline"
	flagCacheDir = "cache-dir"
	flagHint     = "hint"
	flagForce    = "force"
	flagKind     = "kind"
	flagTeams    = "teams"
	flagPlayers  = "players"
	flagWorkers  = "workers"
	flagTimeout  = "timeout"
	flagSpacing  = "spacing"
)

// CLI carries the wired application across cobra's lifecycle hooks so every
// subcommand of one invocation shares a single service graph.
type CLI struct {
	app       *app.App
	pprofSrv  *http.Server
	shutdowns []func(context.Context) error
}

// Execute runs the root command and tears the toolkit down afterwards,
// whether the command succeeded or not.
func Execute(ctx context.Context) error {
	c := &CLI{}
	err := c.newRootCmd().ExecuteContext(ctx)
	c.teardown(ctx)
	return err
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nflassets",
		Short: "Resolve NFL teams and players and cache their artwork",
		Long: `nflassets resolves free-form team and player references to canonical
identities and keeps a disk cache of the matching artwork: logos,
wordmarks, and headshots.

Commands print JSON on stdout and log on stderr. Configuration comes
from NFLASSETS_* environment variables; --offline and --cache-dir
override the environment for one invocation.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: c.setup,
		DisableAutoGenTag: true,
	}

	cmd.PersistentFlags().Bool(flagOffline, false, "serve cached assets only, never touch the network")
	cmd.PersistentFlags().String(flagCacheDir, "", "override the asset cache directory")

	cmd.AddCommand(
		newResolveCmd(c),
		newFetchCmd(c),
		newWarmCmd(c),
		newCacheCmd(c),
		newURLsCmd(c),
		newSitrepCmd(c),
	)

	return cmd
}

// setup builds the service graph once per invocation. Tests pre-seed c.app
// and never touch the environment.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.app != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed(flagOffline) {
		offline, err := cmd.Flags().GetBool(flagOffline)
		if err != nil {
			return err
		}
		cfg.Offline = offline
	}
	if cmd.Flags().Changed(flagCacheDir) {
		dir, err := cmd.Flags().GetString(flagCacheDir)
		if err != nil {
			return err
		}
		cfg.CacheDir = dir
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	c.shutdowns = append(c.shutdowns, uptraceShutdown)

	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	c.shutdowns = append(c.shutdowns, func(context.Context) error { return pyroscopeStop() })

	c.pprofSrv, err = observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof server: %w", err)
	}

	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.app = application

	return nil
}

func (c *CLI) teardown(ctx context.Context) {
	logger := logging.Default()
	if c.app != nil {
		logger = c.app.Logger
	}

	if c.pprofSrv != nil {
		if err := observability.StopPprofServer(c.pprofSrv, logger, 5*time.Second); err != nil {
			logger.WarnContext(ctx, "stop pprof server", "error", err)
		}
		c.pprofSrv = nil
	}

	for i := len(c.shutdowns) - 1; i >= 0; i-- {
		if err := c.shutdowns[i](ctx); err != nil {
			logger.WarnContext(ctx, "shutdown hook failed", "error", err)
		}
	}
	c.shutdowns = nil

	if c.app != nil {
		_ = c.app.Close()
	}
}
