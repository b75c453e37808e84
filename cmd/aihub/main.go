// aihub drives Qualcomm AI Hub compile jobs from the command line. Every
// subcommand prints a single JSON object to stdout; diagnostics go to
// stderr so the output stays machine-readable.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/edgemesh/aihub-tools/internal/config"
	"github.com/edgemesh/aihub-tools/internal/hub"
	"github.com/edgemesh/aihub-tools/internal/logger"
)

var cfg config.Config

func main() {
	app := &cli.Command{
		Name:  "aihub",
		Usage: "Qualcomm AI Hub compile job helper",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			loaded, err := config.Load()
			if err != nil {
				return ctx, err
			}
			cfg = loaded

			level := logLevel
			if !cmd.IsSet("log-level") && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
			if debug {
				level = "debug"
			}
			format := logFormat
			if !cmd.IsSet("log-format") && cfg.LogFormat != "" {
				format = cfg.LogFormat
			}

			var log logger.Logger
			switch format {
			case "json":
				log = logger.JSON(os.Stderr, logger.ParseLevel(level))
			case "text":
				log = logger.Text(os.Stderr, logger.ParseLevel(level))
			default:
				log = logger.Pretty(os.Stderr, logger.ParseLevel(level))
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			compileCmd(),
			statusCmd(),
			downloadCmd(),
			jobsCmd(),
			devicesCmd(),
			doctorCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a hub client honoring config file and environment
// overrides.
func newClient() *hub.Client {
	c := hub.New()
	if cfg.HubBin != "" {
		c.Bin = cfg.HubBin
	}
	if cfg.Python != "" {
		c.Python = cfg.Python
	}
	if cfg.PollInterval != nil && *cfg.PollInterval > 0 {
		c.PollInterval = time.Duration(*cfg.PollInterval) * time.Second
	}
	return c
}
