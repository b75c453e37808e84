package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/edgemesh/aihub-tools/internal/hub"
	"github.com/edgemesh/aihub-tools/internal/logger"
)

func compileCmd() *cli.Command {
	var (
		model   string
		device  string
		options string
		outDir  string
		wait    bool
	)

	return &cli.Command{
		Name:  "compile",
		Usage: "Submit a compile job for a model file or hub model ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "local model file or hub model ID (m...)",
				Required:    true,
				Destination: &model,
			},
			&cli.StringFlag{
				Name:        "device",
				Aliases:     []string{"d"},
				Usage:       "target device name",
				Required:    true,
				Destination: &device,
			},
			&cli.StringFlag{
				Name:        "options",
				Usage:       "extra compile options passed to the hub",
				Destination: &options,
			},
			&cli.BoolFlag{
				Name:        "wait",
				Aliases:     []string{"w"},
				Usage:       "block until the job finishes",
				Destination: &wait,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "download the artifact here after a successful wait",
				Destination: &outDir,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			client := newClient()

			res, err := client.SubmitCompile(ctx, model, device, options)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if res.OK && wait {
				log.Info("waiting for job", "job", res.JobID)
				st, err := client.WaitForJob(ctx, res.JobID)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				applyWaitStatus(&res, st)

				if st.Success && outDir != "" {
					dl, err := client.DownloadArtifact(ctx, res.JobID, outDir)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if dl.OK {
						res.ArtifactPath = dl.Path
					} else {
						// A failed download does not fail the compile result.
						res.DownloadError = dl.Error
					}
				}
			}

			return emitJSON(res)
		},
	}
}

// applyWaitStatus folds a terminal job status into the compile envelope.
// Failed waits carry a "failed:" prefix so callers can match on it.
func applyWaitStatus(res *hub.CompileResult, st hub.JobStatus) {
	res.OK = st.Success
	if st.Success {
		res.Status = st.Status
	} else {
		res.Status = "failed: " + st.Status
	}
}
