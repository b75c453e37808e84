package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubDriver returns a Driver whose commandRunner replays the given function.
func stubDriver(workdir string, run commandRunner) *Driver {
	return &Driver{
		Python:  "python3",
		Workdir: workdir,
		run:     run,
	}
}

// helpThen wraps a runner so the first call (the --help probe) returns the
// given help text and every later call is delegated.
func helpThen(help string, run commandRunner) commandRunner {
	probed := false
	return func(ctx context.Context, name string, args ...string) (string, string, error) {
		if !probed && len(args) > 0 && args[len(args)-1] == "--help" {
			probed = true
			return help, "", nil
		}
		return run(ctx, name, args...)
	}
}

func TestExportSuccessWithOutput(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	d := stubDriver(t.TempDir(), helpThen("usage: export [--output-dir DIR]",
		func(_ context.Context, _ string, args ...string) (string, string, error) {
			// The real entry point writes artifacts into the directory
			// passed after the output flag.
			outDir := args[len(args)-1]
			if err := os.WriteFile(filepath.Join(outDir, "model.onnx"), []byte("x"), 0o644); err != nil {
				t.Fatalf("write artifact: %v", err)
			}
			return "", "", nil
		}))

	res := d.Export(context.Background(), "stable_diffusion_v2_1", "Snapdragon X Elite CRD", "precompiled_qnn_onnx", base, time.Minute)
	if !res.Success {
		t.Fatalf("expected success, got %#v", res)
	}
	want := filepath.Join(base, "stable_diffusion_v2_1")
	if res.OutputPath != want {
		t.Fatalf("output path = %q, want %q", res.OutputPath, want)
	}
	if res.DurationSeconds < 0 {
		t.Fatalf("negative duration: %v", res.DurationSeconds)
	}
	if res.ErrorMsg != "" {
		t.Fatalf("unexpected warning: %q", res.ErrorMsg)
	}
}

func TestExportOutputFlagSpelling(t *testing.T) {
	t.Parallel()
	var exportArgs []string
	d := stubDriver(t.TempDir(), helpThen("usage: export [--output_dir DIR]",
		func(_ context.Context, _ string, args ...string) (string, string, error) {
			exportArgs = args
			return "", "", nil
		}))

	d.Export(context.Background(), "yolov8_det", "dev", "tflite", t.TempDir(), time.Minute)
	if len(exportArgs) < 2 || exportArgs[len(exportArgs)-2] != "--output_dir" {
		t.Fatalf("expected underscore flag spelling, got argv %v", exportArgs)
	}
}

func TestExportFallbackDirCopied(t *testing.T) {
	t.Parallel()
	workdir := t.TempDir()
	base := t.TempDir()
	d := stubDriver(workdir, helpThen("",
		func(_ context.Context, _ string, _ ...string) (string, string, error) {
			// Exit cleanly but write to the conventional build dir instead
			// of the requested output directory.
			buildDir := filepath.Join(workdir, "build")
			if err := os.MkdirAll(buildDir, 0o755); err != nil {
				t.Fatalf("mkdir build: %v", err)
			}
			if err := os.WriteFile(filepath.Join(buildDir, "model.bin"), []byte("x"), 0o644); err != nil {
				t.Fatalf("write artifact: %v", err)
			}
			return "", "", nil
		}))

	res := d.Export(context.Background(), "whisper_tiny", "dev", "onnx", base, time.Minute)
	if !res.Success {
		t.Fatalf("expected success, got %#v", res)
	}
	copied := filepath.Join(base, "whisper_tiny", "model.bin")
	if _, err := os.Stat(copied); err != nil {
		t.Fatalf("fallback artifact not copied: %v", err)
	}
}

func TestExportUnclearOutputLocation(t *testing.T) {
	t.Parallel()
	d := stubDriver(t.TempDir(), helpThen("",
		func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "done", "", nil
		}))

	res := d.Export(context.Background(), "quicksrnetsmall", "dev", "onnx", t.TempDir(), time.Minute)
	if !res.Success {
		t.Fatalf("expected success, got %#v", res)
	}
	if res.ErrorMsg != "Export succeeded but output location unclear" {
		t.Fatalf("unexpected warning: %q", res.ErrorMsg)
	}
}

func TestExportFailureTruncatesStderr(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("E", 2000)
	d := stubDriver(t.TempDir(), helpThen("",
		func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "", long, errors.New("exit status 1")
		}))

	res := d.Export(context.Background(), "resnet50", "dev", "onnx", t.TempDir(), time.Minute)
	if res.Success {
		t.Fatalf("expected failure, got %#v", res)
	}
	if len(res.ErrorMsg) != maxErrorLen+len("...") {
		t.Fatalf("error not truncated to %d chars: %d", maxErrorLen, len(res.ErrorMsg))
	}
	if !strings.HasSuffix(res.ErrorMsg, "...") {
		t.Fatalf("truncated error missing ellipsis: %q", res.ErrorMsg[len(res.ErrorMsg)-10:])
	}
}

func TestExportFailurePrefersStderrThenStdout(t *testing.T) {
	t.Parallel()
	d := stubDriver(t.TempDir(), helpThen("",
		func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "stdout diagnostic", "  \n", errors.New("exit status 1")
		}))

	res := d.Export(context.Background(), "resnet50", "dev", "onnx", t.TempDir(), time.Minute)
	if res.ErrorMsg != "stdout diagnostic" {
		t.Fatalf("unexpected diagnostic: %q", res.ErrorMsg)
	}
}

func TestExportTimeout(t *testing.T) {
	t.Parallel()
	d := stubDriver(t.TempDir(), helpThen("",
		func(ctx context.Context, _ string, _ ...string) (string, string, error) {
			<-ctx.Done()
			return "", "", ctx.Err()
		}))

	res := d.Export(context.Background(), "llama_v3_2_3b_instruct", "dev", "onnx", t.TempDir(), 50*time.Millisecond)
	if res.Success {
		t.Fatalf("expected failure, got %#v", res)
	}
	if !strings.HasPrefix(res.ErrorMsg, "Timeout after ") {
		t.Fatalf("unexpected timeout message: %q", res.ErrorMsg)
	}
}
