package hub

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubClient returns a Client whose commandRunner replays canned responses.
func stubClient(run commandRunner) *Client {
	return &Client{
		Bin:          "qai-hub",
		Python:       "python3",
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
		run:          run,
	}
}

func TestSubmitCompileParsesEnvelope(t *testing.T) {
	t.Parallel()
	var gotArgs []string
	c := stubClient(func(_ context.Context, name string, args ...string) (string, string, error) {
		gotArgs = args
		return `{"ok": true, "job_id": "jabc1234", "job_url": "https://aihub.qualcomm.com/jobs/jabc1234", "status": "submitted", "device": "Snapdragon X Elite CRD"}`, "", nil
	})

	res, err := c.SubmitCompile(context.Background(), "m12345", "Snapdragon X Elite CRD", "")
	if err != nil {
		t.Fatalf("SubmitCompile returned error: %v", err)
	}
	if !res.OK || res.JobID != "jabc1234" {
		t.Fatalf("unexpected result: %#v", res)
	}
	// argv: -c <script> model device options job-name
	if len(gotArgs) != 6 {
		t.Fatalf("unexpected argv: %v", gotArgs)
	}
	if gotArgs[2] != "m12345" {
		t.Fatalf("model not passed through argv: %v", gotArgs)
	}
	if !strings.HasPrefix(gotArgs[5], "edgemesh-") {
		t.Fatalf("job name missing edgemesh prefix: %q", gotArgs[5])
	}
}

func TestSubmitCompileMissingModelFile(t *testing.T) {
	t.Parallel()
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		t.Fatal("runner should not be invoked for a missing model file")
		return "", "", nil
	})

	res, err := c.SubmitCompile(context.Background(), filepath.Join(t.TempDir(), "missing.onnx"), "dev", "")
	if err != nil {
		t.Fatalf("SubmitCompile returned error: %v", err)
	}
	if res.OK || !strings.Contains(res.Error, "Model file not found") {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestSubmitCompileLocalModelFile(t *testing.T) {
	t.Parallel()
	model := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(model, []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return `{"ok": true, "job_id": "j1"}`, "", nil
	})

	res, err := c.SubmitCompile(context.Background(), model, "dev", "--quantize")
	if err != nil {
		t.Fatalf("SubmitCompile returned error: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestSubmitCompileSDKFailureStaysInEnvelope(t *testing.T) {
	t.Parallel()
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		// The script prints its failure envelope and exits non-zero.
		return `{"ok": false, "error": "API token invalid"}`, "traceback", errors.New("exit status 1")
	})

	res, err := c.SubmitCompile(context.Background(), "m12345", "dev", "")
	if err != nil {
		t.Fatalf("SDK failure should not be a Go error: %v", err)
	}
	if res.OK || res.Error != "API token invalid" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestSubmitCompileNoPython(t *testing.T) {
	t.Parallel()
	c := stubClient(nil)
	c.Python = ""

	_, err := c.SubmitCompile(context.Background(), "m12345", "dev", "")
	if !errors.Is(err, ErrToolingMissing) {
		t.Fatalf("expected ErrToolingMissing, got %v", err)
	}
}

func TestJobStatusEnvelope(t *testing.T) {
	t.Parallel()
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return `{"job_id": "j1", "status": "Results Ready", "success": true, "running": false}`, "", nil
	})

	st, err := c.JobStatus(context.Background(), "j1")
	if err != nil {
		t.Fatalf("JobStatus returned error: %v", err)
	}
	if !st.Success || !st.Terminal() {
		t.Fatalf("unexpected status: %#v", st)
	}
}

func TestJobStatusRunnerFailure(t *testing.T) {
	t.Parallel()
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return "", "boom", errors.New("exit status 2")
	})

	st, err := c.JobStatus(context.Background(), "j1")
	if err != nil {
		t.Fatalf("runner failure should fold into envelope: %v", err)
	}
	if st.Success || st.Error == "" || st.Status != "error" {
		t.Fatalf("unexpected status: %#v", st)
	}
}

func TestDiscoverModels(t *testing.T) {
	t.Parallel()

	t.Run("sorted list", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return `{"count": 2, "models": ["llama_v3_2_3b_instruct", "stable_diffusion_v2_1"]}`, "", nil
		})
		models, err := c.DiscoverModels(context.Background())
		if err != nil {
			t.Fatalf("DiscoverModels returned error: %v", err)
		}
		if len(models) != 2 || models[0] != "llama_v3_2_3b_instruct" {
			t.Fatalf("unexpected models: %v", models)
		}
	})

	t.Run("missing package", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return `{"count": 0, "models": [], "error": "qai_hub_models not installed"}`, "", nil
		})
		if _, err := c.DiscoverModels(context.Background()); !errors.Is(err, ErrToolingMissing) {
			t.Fatalf("expected ErrToolingMissing, got %v", err)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return `{"count": 0, "models": []}`, "", nil
		})
		if _, err := c.DiscoverModels(context.Background()); err == nil {
			t.Fatal("expected error for empty catalog")
		}
	})
}

func TestListDevicesRawPropagatesFailure(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		c := stubClient(func(_ context.Context, name string, args ...string) (string, string, error) {
			if name != "qai-hub" || len(args) != 1 || args[0] != "list-devices" {
				t.Fatalf("unexpected command: %s %v", name, args)
			}
			return "| Snapdragon X Elite CRD | Windows |", "", nil
		})
		out, err := c.ListDevicesRaw(context.Background())
		if err != nil {
			t.Fatalf("ListDevicesRaw returned error: %v", err)
		}
		if !strings.Contains(out, "Snapdragon") {
			t.Fatalf("unexpected output: %q", out)
		}
	})

	t.Run("command failure", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "", "not configured", errors.New("exit status 1")
		})
		_, err := c.ListDevicesRaw(context.Background())
		if err == nil || !strings.Contains(err.Error(), "not configured") {
			t.Fatalf("expected verbatim failure reason, got %v", err)
		}
	})

	t.Run("binary missing", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "", "", exec.ErrNotFound
		})
		_, err := c.ListDevicesRaw(context.Background())
		if !errors.Is(err, ErrToolingMissing) {
			t.Fatalf("expected ErrToolingMissing, got %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty output", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "   \n", "", nil
		})
		if err := c.Validate(context.Background()); err == nil {
			t.Fatal("expected error for empty listing")
		}
	})

	t.Run("configured", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "| Device | OS |\n| X | Windows |\n", "", nil
		})
		if err := c.Validate(context.Background()); err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
	})
}

func TestWaitForJob(t *testing.T) {
	t.Parallel()

	t.Run("stops on success", func(t *testing.T) {
		responses := []string{
			`{"job_id": "j1", "status": "Running", "success": false, "running": true}`,
			`{"job_id": "j1", "status": "Running", "success": false, "running": true}`,
			`{"job_id": "j1", "status": "Results Ready", "success": true, "running": false}`,
		}
		calls := 0
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			resp := responses[calls]
			calls++
			return resp, "", nil
		})

		st, err := c.WaitForJob(context.Background(), "j1")
		if err != nil {
			t.Fatalf("WaitForJob returned error: %v", err)
		}
		if !st.Success || calls != 3 {
			t.Fatalf("unexpected terminal status %#v after %d calls", st, calls)
		}
	})

	t.Run("stops on failure", func(t *testing.T) {
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return `{"job_id": "j1", "status": "Failed: bad model", "success": false, "running": false}`, "", nil
		})

		st, err := c.WaitForJob(context.Background(), "j1")
		if err != nil {
			t.Fatalf("WaitForJob returned error: %v", err)
		}
		if st.Success || st.Running {
			t.Fatalf("expected terminal failure, got %#v", st)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
			cancel() // cancel while the first status check is in flight
			return `{"job_id": "j1", "status": "Running", "success": false, "running": true}`, "", nil
		})
		c.PollInterval = time.Hour // the cancel must win, not the tick

		_, err := c.WaitForJob(ctx, "j1")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDoctorMissingBinary(t *testing.T) {
	c := stubClient(func(_ context.Context, _ string, _ ...string) (string, string, error) {
		return "", "", nil
	})
	c.Bin = filepath.Join(t.TempDir(), "definitely-not-installed")
	t.Setenv(EnvAPIToken, "")

	res := c.Doctor(context.Background())
	if res.BinaryFound {
		t.Fatal("binary should not be found")
	}
	if res.TokenEnvPresent {
		t.Fatal("token should not be present")
	}
	joined := strings.Join(res.Notes, "\n")
	if !strings.Contains(joined, "pip install qai-hub") {
		t.Fatalf("expected install hint in notes: %v", res.Notes)
	}
}
