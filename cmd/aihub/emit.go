package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// emitJSON prints the result envelope to stdout. This is the only thing a
// subcommand writes there; callers parse it directly.
func emitJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
