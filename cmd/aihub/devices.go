package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func devicesCmd() *cli.Command {
	var name string

	return &cli.Command{
		Name:    "list-devices",
		Aliases: []string{"devices"},
		Usage:   "List cloud target devices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "filter devices by name",
				Destination: &name,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := newClient().ListDevices(ctx, name)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return emitJSON(res)
		},
	}
}
