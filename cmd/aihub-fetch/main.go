// aihub-fetch downloads the compiled artifact of a finished hub job.
// Unlike the compile helper it exits non-zero on any failure, so it can
// gate later pipeline stages.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/edgemesh/aihub-tools/internal/hub"
	"github.com/edgemesh/aihub-tools/internal/logger"
)

func main() {
	var (
		jobID  string
		outDir string
		wait   bool
	)

	app := &cli.Command{
		Name:  "aihub-fetch",
		Usage: "Fetch the compiled artifact of a hub job",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "job",
				Aliases:     []string{"j"},
				Usage:       "job ID",
				Required:    true,
				Destination: &jobID,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Required:    true,
				Destination: &outDir,
			},
			&cli.BoolFlag{
				Name:        "wait",
				Aliases:     []string{"w"},
				Usage:       "wait for the job to finish first",
				Destination: &wait,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.Pretty(os.Stderr, logger.ParseLevel("info"))
			ctx = logger.WithContext(ctx, log)
			client := hub.New()

			st, err := client.JobStatus(ctx, jobID)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if wait && !st.Terminal() {
				log.Info("waiting for job", "job", jobID, "status", st.Status)
				if st, err = client.WaitForJob(ctx, jobID); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			if !st.Success {
				return cli.Exit(fmt.Sprintf("job %s is not successfully finished: %s", jobID, st.Status), 1)
			}

			res, err := client.DownloadArtifact(ctx, jobID, outDir)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !res.OK {
				return cli.Exit("download failed: "+res.Error, 1)
			}

			fmt.Println(res.Path)
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
