package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func downloadCmd() *cli.Command {
	var (
		jobID  string
		outDir string
	)

	return &cli.Command{
		Name:  "download",
		Usage: "Download the compiled artifact of a finished job",
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := newClient().DownloadArtifact(ctx, jobID, outDir)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return emitJSON(res)
		},
	}
}
