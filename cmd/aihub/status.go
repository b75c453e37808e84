package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func statusCmd() *cli.Command {
	var (
		jobID string
		wait  bool
	)

	return &cli.Command{
		Name:  "status",
		Usage: "Check the status of a compile job",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "job",
				Aliases:     []string{"j"},
				Usage:       "job ID",
				Required:    true,
				Destination: &jobID,
			},
			&cli.BoolFlag{
				Name:        "wait",
				Aliases:     []string{"w"},
				Usage:       "block until the job finishes",
				Destination: &wait,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := newClient()

			if wait {
				st, err := client.WaitForJob(ctx, jobID)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return emitJSON(st)
			}

			st, err := client.JobStatus(ctx, jobID)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return emitJSON(st)
		},
	}
}
