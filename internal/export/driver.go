// Package export runs per-model export entry points from qai_hub_models and
// classifies their outcomes.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Result records one export attempt. Immutable once returned; the batch
// exporter collects them in order for the final summary.
type Result struct {
	Success         bool    `json:"success"`
	RequestedName   string  `json:"requested_name"`
	ResolvedName    string  `json:"resolved_name"`
	Device          string  `json:"device"`
	OutputPath      string  `json:"output_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	ErrorMsg        string  `json:"error_msg,omitempty"`
}

// maxErrorLen bounds the diagnostic text captured from a failed export.
const maxErrorLen = 500

// helpProbeTimeout bounds the --help invocation used to detect the
// output-directory flag spelling.
const helpProbeTimeout = 30 * time.Second

type commandRunner func(ctx context.Context, name string, args ...string) (string, string, error)

// Driver invokes `python -m qai_hub_models.models.<name>.export` for one
// model at a time.
type Driver struct {
	Python  string // interpreter carrying qai_hub_models
	Workdir string // directory exports run in; fallback outputs are probed here

	run commandRunner
}

// NewDriver creates a Driver using the given python interpreter.
func NewDriver(python string) *Driver {
	d := &Driver{Python: python}
	d.run = d.execRun
	return d
}

func (d *Driver) execRun(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if d.Workdir != "" {
		cmd.Dir = d.Workdir
	}
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Export runs one model's export entry point and classifies the outcome.
// The duration covers the subprocess calls only, not name resolution.
// Partial output directories are left in place on failure for inspection.
func (d *Driver) Export(ctx context.Context, modelName, device, targetRuntime, outputBase string, timeout time.Duration) Result {
	start := time.Now()
	outputDir := filepath.Join(outputBase, modelName)

	fail := func(msg string) Result {
		return Result{
			RequestedName:   modelName,
			ResolvedName:    modelName,
			Device:          device,
			DurationSeconds: time.Since(start).Seconds(),
			ErrorMsg:        msg,
		}
	}
	succeed := func(warning string) Result {
		return Result{
			Success:         true,
			RequestedName:   modelName,
			ResolvedName:    modelName,
			Device:          device,
			OutputPath:      outputDir,
			DurationSeconds: time.Since(start).Seconds(),
			ErrorMsg:        warning,
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fail(err.Error())
	}

	outputFlag := d.detectOutputFlag(ctx, modelName)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entry := fmt.Sprintf("qai_hub_models.models.%s.export", modelName)
	stdout, stderr, err := d.run(runCtx, d.Python,
		"-m", entry,
		"--device", device,
		"--target-runtime", targetRuntime,
		outputFlag, outputDir,
	)

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Sprintf("Timeout after %ds", int(timeout.Seconds())))
		}
		return fail(truncate(diagnosticFor(err, stdout, stderr), maxErrorLen))
	}

	if dirNonEmpty(outputDir) {
		return succeed("")
	}

	// The entry point exited cleanly but wrote nothing where we asked.
	// Some models ignore the output flag and write to conventional
	// locations under the working directory instead.
	for _, fallback := range d.fallbackDirs(modelName) {
		if dirNonEmpty(fallback) {
			if err := copyTree(fallback, outputDir); err != nil {
				return fail(fmt.Sprintf("export wrote to %s but copying it failed: %v", fallback, err))
			}
			return succeed("")
		}
	}

	return succeed("Export succeeded but output location unclear")
}

// detectOutputFlag probes the export entry point's help text for the
// output-directory flag spelling, which differs between model generations.
func (d *Driver) detectOutputFlag(ctx context.Context, modelName string) string {
	probeCtx, cancel := context.WithTimeout(ctx, helpProbeTimeout)
	defer cancel()

	entry := fmt.Sprintf("qai_hub_models.models.%s.export", modelName)
	stdout, stderr, _ := d.run(probeCtx, d.Python, "-m", entry, "--help")
	helpText := stdout + stderr

	switch {
	case strings.Contains(helpText, "--output-dir"):
		return "--output-dir"
	case strings.Contains(helpText, "--output_dir"):
		return "--output_dir"
	default:
		return "--output-dir"
	}
}

func (d *Driver) fallbackDirs(modelName string) []string {
	base := d.Workdir
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		} else {
			base = "."
		}
	}
	return []string{
		filepath.Join(base, "build"),
		filepath.Join(base, modelName),
		filepath.Join(base, modelName+"_export"),
	}
}

// diagnosticFor prefers stderr, then stdout, then the error itself.
func diagnosticFor(err error, stdout, stderr string) string {
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(stdout); s != "" {
		return s
	}
	return err.Error()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func dirNonEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// copyTree copies the contents of src into dst, creating directories as
// needed and overwriting existing files.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
