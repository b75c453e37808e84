package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/edgemesh/aihub-tools/internal/term"
)

func doctorCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "doctor",
		Usage: "Check the local qai-hub installation",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res := newClient().Doctor(ctx)
			if asJSON {
				return emitJSON(res)
			}

			p := term.StdoutPalette()
			mark := func(ok bool) string {
				if ok {
					return p.Green + "ok" + p.Reset
				}
				return p.Red + "missing" + p.Reset
			}

			fmt.Printf("qai-hub binary:  %s", mark(res.BinaryFound))
			if res.BinaryFound {
				fmt.Printf("  %s", res.BinaryPath)
				if res.Version != "" {
					fmt.Printf(" (%s)", res.Version)
				}
			}
			fmt.Println()
			fmt.Printf("python (SDK):    %s\n", mark(res.PythonFound))
			fmt.Printf("API token env:   %s\n", mark(res.TokenEnvPresent))
			for _, note := range res.Notes {
				fmt.Printf("  %s-%s %s\n", p.Yellow, p.Reset, note)
			}
			return nil
		},
	}
}
