// aihub-export batch-exports models from qai_hub_models for a cloud target
// device. The process exits 0 when at least one model exported, so partial
// fleet updates still ship.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/edgemesh/aihub-tools/internal/catalog"
	"github.com/edgemesh/aihub-tools/internal/config"
	"github.com/edgemesh/aihub-tools/internal/export"
	"github.com/edgemesh/aihub-tools/internal/hub"
	"github.com/edgemesh/aihub-tools/internal/logger"
	"github.com/edgemesh/aihub-tools/internal/term"
)

func main() {
	var (
		models        string
		deviceName    string
		targetRuntime string
		outputBase    string
		timeoutSecs   int64
		dryRun        bool
		listModels    bool
		cfg           config.Config
	)

	app := &cli.Command{
		Name:  "aihub-export",
		Usage: "Batch-export qai_hub_models for a cloud target device",
		Flags: append(loggingFlags(),
			&cli.StringFlag{
				Name:        "models",
				Aliases:     []string{"m"},
				Usage:       "comma-separated model names or aliases",
				Value:       strings.Join(catalog.DefaultModels, ","),
				Destination: &models,
			},
			&cli.StringFlag{
				Name:        "device",
				Aliases:     []string{"d"},
				Usage:       "target device name (auto-selected when omitted)",
				Destination: &deviceName,
			},
			&cli.StringFlag{
				Name:        "target-runtime",
				Usage:       "export target runtime",
				Value:       "precompiled_qnn_onnx",
				Destination: &targetRuntime,
			},
			&cli.StringFlag{
				Name:        "output-base",
				Aliases:     []string{"o"},
				Usage:       "base directory for exported artifacts",
				Value:       "artifacts/qaihub/models",
				Destination: &outputBase,
			},
			&cli.Int64Flag{
				Name:        "timeout",
				Usage:       "per-model export timeout in seconds",
				Value:       1800,
				Destination: &timeoutSecs,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "resolve names and select a device without exporting",
				Destination: &dryRun,
			},
			&cli.BoolFlag{
				Name:        "list-available",
				Usage:       "print the available model names and exit",
				Destination: &listModels,
			},
		),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			loaded, err := config.Load()
			if err != nil {
				return ctx, err
			}
			cfg = loaded

			level := logLevel
			if debug {
				level = "debug"
			}
			var log logger.Logger
			if logFormat == "json" {
				log = logger.JSON(os.Stderr, logger.ParseLevel(level))
			} else {
				log = logger.Pretty(os.Stderr, logger.ParseLevel(level))
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := hub.New()
			if cfg.HubBin != "" {
				client.Bin = cfg.HubBin
			}
			if cfg.Python != "" {
				client.Python = cfg.Python
			}

			if listModels {
				names, err := client.DiscoverModels(ctx)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			// Flag beats environment beats config file; the flag defaults
			// only apply when nothing else set a value.
			if !cmd.IsSet("device") && cfg.Device != "" {
				deviceName = cfg.Device
			}
			if !cmd.IsSet("target-runtime") && cfg.TargetRuntime != "" {
				targetRuntime = cfg.TargetRuntime
			}
			if !cmd.IsSet("output-base") && cfg.OutputBase != "" {
				outputBase = cfg.OutputBase
			}
			if !cmd.IsSet("timeout") && cfg.ExportTimeout != nil && *cfg.ExportTimeout > 0 {
				timeoutSecs = *cfg.ExportTimeout
			}

			opts := batchOptions{
				Models:        splitModels(models),
				Device:        deviceName,
				TargetRuntime: targetRuntime,
				OutputBase:    outputBase,
				Timeout:       time.Duration(timeoutSecs) * time.Second,
				DryRun:        dryRun,
				Aliases:       cfg.Aliases,
			}
			if len(opts.Models) == 0 {
				return cli.Exit("no models requested", 1)
			}

			driver := export.NewDriver(client.Python)
			results, err := runBatch(ctx, os.Stdout, term.StdoutPalette(), client, driver, opts)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if succeededCount(results) == 0 {
				return cli.Exit("no models exported", 1)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func splitModels(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
