package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/edgemesh/aihub-tools/internal/catalog"
	"github.com/edgemesh/aihub-tools/internal/device"
	"github.com/edgemesh/aihub-tools/internal/export"
	"github.com/edgemesh/aihub-tools/internal/logger"
	"github.com/edgemesh/aihub-tools/internal/term"
)

// hubService is the slice of hub operations the batch needs. The concrete
// implementation is *hub.Client.
type hubService interface {
	Validate(ctx context.Context) error
	ListDevicesRaw(ctx context.Context) (string, error)
	DiscoverModels(ctx context.Context) ([]string, error)
}

// modelExporter runs one export. The concrete implementation is
// *export.Driver.
type modelExporter interface {
	Export(ctx context.Context, modelName, device, targetRuntime, outputBase string, timeout time.Duration) export.Result
}

type batchOptions struct {
	Models        []string
	Device        string // empty means auto-select
	TargetRuntime string
	OutputBase    string
	Timeout       time.Duration
	DryRun        bool
	Aliases       map[string]string // merged over the built-in table
}

// runBatch drives the whole export flow and returns one result per
// requested model, in request order. It fails outright only when no model
// can even be attempted; per-model failures are ordinary results.
func runBatch(ctx context.Context, out io.Writer, p term.Palette, svc hubService, exporter modelExporter, opts batchOptions) ([]export.Result, error) {
	log := logger.FromContext(ctx)

	step(out, p, 1, "Validating qai-hub installation")
	if err := svc.Validate(ctx); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "    %sok%s\n", p.Green, p.Reset)

	step(out, p, 2, "Selecting target device")
	target := opts.Device
	reason := "set explicitly"
	if target == "" {
		listing, err := svc.ListDevicesRaw(ctx)
		if err != nil {
			return nil, err
		}
		target, reason, err = device.AutoSelect(listing)
		if err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(out, "    %s%s%s (%s)\n", p.Cyan, target, p.Reset, reason)

	step(out, p, 3, "Discovering available models")
	available, err := svc.DiscoverModels(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "    %d models in qai_hub_models\n", len(available))

	// Results are written by request index so the summary keeps the
	// caller's order even when resolution and export happen in two passes.
	step(out, p, 4, "Resolving requested model names")
	resolver := catalog.NewResolver(available, catalog.Aliases(opts.Aliases))
	results := make([]export.Result, len(opts.Models))
	type job struct {
		index     int
		requested string
		resolved  string
	}
	var jobs []job
	for i, requested := range opts.Models {
		resolved, ok := resolver.Resolve(requested)
		if !ok {
			log.Warn("model not found", "requested", requested, "suggestion", resolver.Suggest(requested))
			results[i] = export.Result{
				RequestedName: requested,
				ResolvedName:  requested,
				Device:        target,
				ErrorMsg:      catalog.NotFoundMsg,
			}
			fmt.Fprintf(out, "    %s%-40s not found%s\n", p.Red, requested, p.Reset)
			continue
		}
		jobs = append(jobs, job{i, requested, resolved})
		fmt.Fprintf(out, "    %-40s -> %s\n", requested, resolved)
	}

	step(out, p, 5, fmt.Sprintf("Exporting %d models", len(jobs)))
	for _, j := range jobs {
		if opts.DryRun {
			results[j.index] = export.Result{
				Success:       true,
				RequestedName: j.requested,
				ResolvedName:  j.resolved,
				Device:        target,
				OutputPath:    filepath.Join(opts.OutputBase, j.resolved),
				ErrorMsg:      "(dry-run)",
			}
			fmt.Fprintf(out, "    %s%s%s (dry-run)\n", p.Yellow, j.resolved, p.Reset)
			continue
		}

		fmt.Fprintf(out, "    %s%s%s on %s\n", p.Bold, j.resolved, p.Reset, target)
		res := exporter.Export(ctx, j.resolved, target, opts.TargetRuntime, opts.OutputBase, opts.Timeout)
		res.RequestedName = j.requested
		results[j.index] = res
		if res.Success {
			fmt.Fprintf(out, "      %sdone%s in %s\n", p.Green, p.Reset, formatDuration(res.DurationSeconds))
		} else {
			fmt.Fprintf(out, "      %sfailed%s: %s\n", p.Red, p.Reset, firstLine(res.ErrorMsg))
		}
	}

	printSummary(out, p, results)
	return results, nil
}

func step(out io.Writer, p term.Palette, n int, title string) {
	fmt.Fprintf(out, "%s[%d/5]%s %s\n", p.Bold, n, p.Reset, title)
}

func printSummary(out io.Writer, p term.Palette, results []export.Result) {
	fmt.Fprintf(out, "\n%sSummary%s\n", p.Bold, p.Reset)

	width := len("model")
	for _, r := range results {
		if len(r.RequestedName) > width {
			width = len(r.RequestedName)
		}
	}

	fmt.Fprintf(out, "  %-*s  %-6s  %-8s  %s\n", width, "model", "status", "time", "output")
	succeeded := 0
	for _, r := range results {
		status := p.Red + "FAIL" + p.Reset
		detail := firstLine(r.ErrorMsg)
		if r.Success {
			succeeded++
			status = p.Green + "OK" + p.Reset
			detail = r.OutputPath
			if r.ErrorMsg != "" {
				detail = strings.TrimSpace(detail + " " + r.ErrorMsg)
			}
		}
		fmt.Fprintf(out, "  %-*s  %-6s  %-8s  %s\n",
			width, r.RequestedName, status, formatDuration(r.DurationSeconds), detail)
	}
	fmt.Fprintf(out, "  %d/%d succeeded\n", succeeded, len(results))
}

func formatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	total := int(seconds)
	return fmt.Sprintf("%dm%02ds", total/60, total%60)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func succeededCount(results []export.Result) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
