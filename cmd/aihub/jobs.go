package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func jobsCmd() *cli.Command {
	var limit int64

	return &cli.Command{
		Name:    "list-jobs",
		Aliases: []string{"jobs"},
		Usage:   "List recent compile jobs, newest first",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of jobs to list",
				Value:       10,
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := newClient().ListJobs(ctx, int(limit))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return emitJSON(res)
		},
	}
}
