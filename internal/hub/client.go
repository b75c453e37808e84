// Package hub wraps the Qualcomm AI Hub tooling: the qai-hub CLI for device
// listing and health checks, and the qai_hub python SDK for job submission,
// status, and artifact download. Both are opaque vendor services; their
// responses are parsed defensively into typed envelopes.
package hub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// EnvAPIToken is the environment variable holding the QAI Hub API token.
// The vendor CLI owns the credential store; we only report its presence.
const EnvAPIToken = "QAI_HUB_API_TOKEN"

// ErrToolingMissing indicates the vendor tooling is not installed. This is
// the one failure class that escalates to a non-zero process exit.
var ErrToolingMissing = errors.New("qai-hub tooling not found, install with: pip install qai-hub qai-hub-models")

const (
	defaultTimeout      = 120 * time.Second
	defaultPollInterval = 5 * time.Second
)

// commandRunner executes an external command and returns its stdout and
// stderr. Swapped for a stub in tests.
type commandRunner func(ctx context.Context, name string, args ...string) (string, string, error)

// Client drives the vendor tooling.
type Client struct {
	Bin          string            // qai-hub CLI binary
	Python       string            // venv python for SDK operations
	Env          map[string]string // extra environment for subprocesses
	Timeout      time.Duration     // per-operation timeout for SDK calls
	PollInterval time.Duration     // wait-loop interval, 5s unless overridden

	run commandRunner
}

// New creates a Client, auto-detecting the qai-hub binary and venv python.
func New() *Client {
	c := &Client{
		Bin:          findHubBinary(),
		Python:       findVenvPython(),
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
	}
	c.run = c.execRun
	return c
}

// findHubBinary looks for qai-hub in common venv locations, then PATH.
func findHubBinary() string {
	candidates := []string{
		filepath.Join(".venv-qaihub", "bin", "qai-hub"),
		filepath.Join(".venv-qaihub", "Scripts", "qai-hub.exe"),
		filepath.Join(".venv", "bin", "qai-hub"),
		filepath.Join(".venv", "Scripts", "qai-hub.exe"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	if p, err := exec.LookPath("qai-hub"); err == nil {
		return p
	}
	// Let execution fail later with a useful error.
	return "qai-hub"
}

// findVenvPython returns the python interpreter carrying the qai_hub SDK.
func findVenvPython() string {
	candidates := []string{
		filepath.Join(".venv-qaihub", "bin", "python3"),
		filepath.Join(".venv-qaihub", "bin", "python"),
		filepath.Join(".venv-qaihub", "Scripts", "python.exe"),
		filepath.Join(".venv", "bin", "python3"),
		filepath.Join(".venv", "Scripts", "python.exe"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	if p, err := exec.LookPath("python3"); err == nil {
		return p
	}
	if p, err := exec.LookPath("python"); err == nil {
		return p
	}
	return ""
}

// IsAvailable reports whether the qai-hub CLI can be invoked.
func (c *Client) IsAvailable() bool {
	if c.Bin == "" {
		return false
	}
	if _, err := exec.LookPath(c.Bin); err == nil {
		return true
	}
	_, err := os.Stat(c.Bin)
	return err == nil
}

// execRun is the real commandRunner.
func (c *Client) execRun(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(c.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// sdk runs an inline SDK script under the per-operation timeout and decodes
// the single JSON object it prints into out. A run error with parseable
// stdout is not fatal: the script may have printed its failure envelope
// before exiting.
func (c *Client) sdk(ctx context.Context, out any, script string, args ...string) error {
	if c.Python == "" {
		return fmt.Errorf("%w (no python interpreter)", ErrToolingMissing)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := append([]string{"-c", script}, args...)
	stdout, stderr, runErr := c.run(ctx, c.Python, argv...)

	payload := strings.TrimSpace(stdout)
	if payload == "" {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("qai_hub SDK call timed out after %s", timeout)
		}
		if runErr != nil {
			if errors.Is(runErr, exec.ErrNotFound) {
				return fmt.Errorf("%w (%s)", ErrToolingMissing, c.Python)
			}
			return fmt.Errorf("qai_hub SDK call failed: %w (stderr: %s)", runErr, strings.TrimSpace(stderr))
		}
		return errors.New("qai_hub SDK call produced no output")
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to parse SDK response: %w (raw: %s)", err, payload)
	}
	return nil
}

// SubmitCompile submits a compile job. SDK failures come back inside the
// envelope; only missing tooling is a Go error.
func (c *Client) SubmitCompile(ctx context.Context, model, deviceName, options string) (CompileResult, error) {
	// A model reference starting with "m" is a hub model ID; anything else
	// must exist locally before we waste a round trip.
	if !(strings.HasPrefix(model, "m") && len(model) > 3) {
		if _, err := os.Stat(model); err != nil {
			return CompileResult{Error: "Model file not found: " + model}, nil
		}
	}

	jobName := "edgemesh-" + uuid.NewString()[:8]
	var res CompileResult
	if err := c.sdk(ctx, &res, submitScript, model, deviceName, options, jobName); err != nil {
		if errors.Is(err, ErrToolingMissing) {
			return CompileResult{}, err
		}
		return CompileResult{Error: err.Error()}, nil
	}
	return res, nil
}

// JobStatus checks the status of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (JobStatus, error) {
	if jobID == "" {
		return JobStatus{}, errors.New("job id is required")
	}
	var st JobStatus
	if err := c.sdk(ctx, &st, statusScript, jobID); err != nil {
		if errors.Is(err, ErrToolingMissing) {
			return JobStatus{}, err
		}
		return JobStatus{JobID: jobID, Status: "error", Error: err.Error()}, nil
	}
	return st, nil
}

// DownloadArtifact downloads the compiled target model of a successful job
// to <outDir>/model.bin.
func (c *Client) DownloadArtifact(ctx context.Context, jobID, outDir string) (DownloadResult, error) {
	if jobID == "" || outDir == "" {
		return DownloadResult{}, errors.New("job id and output directory are required")
	}
	var res DownloadResult
	if err := c.sdk(ctx, &res, downloadScript, jobID, outDir); err != nil {
		if errors.Is(err, ErrToolingMissing) {
			return DownloadResult{}, err
		}
		return DownloadResult{JobID: jobID, Error: err.Error()}, nil
	}
	return res, nil
}

// ListJobs lists recent jobs, newest first.
func (c *Client) ListJobs(ctx context.Context, limit int) (JobList, error) {
	if limit <= 0 {
		limit = 10
	}
	var res JobList
	if err := c.sdk(ctx, &res, listJobsScript, strconv.Itoa(limit)); err != nil {
		if errors.Is(err, ErrToolingMissing) {
			return JobList{}, err
		}
		return JobList{Jobs: []JobSummary{}, Error: err.Error()}, nil
	}
	if res.Jobs == nil {
		res.Jobs = []JobSummary{}
	}
	return res, nil
}

// ListDevices lists cloud target devices, optionally filtered by name.
func (c *Client) ListDevices(ctx context.Context, nameFilter string) (DeviceList, error) {
	var res DeviceList
	if err := c.sdk(ctx, &res, listDevicesScript, nameFilter); err != nil {
		if errors.Is(err, ErrToolingMissing) {
			return DeviceList{}, err
		}
		return DeviceList{Devices: []TargetDevice{}, Error: err.Error()}, nil
	}
	if res.Devices == nil {
		res.Devices = []TargetDevice{}
	}
	return res, nil
}

// DiscoverModels lists the model packages available in qai_hub_models,
// sorted. An empty or missing catalog is an error: the batch exporter
// treats it as a setup failure.
func (c *Client) DiscoverModels(ctx context.Context) ([]string, error) {
	var res modelList
	if err := c.sdk(ctx, &res, discoverScript); err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, fmt.Errorf("%w (%s)", ErrToolingMissing, res.Error)
	}
	if len(res.Models) == 0 {
		return nil, errors.New("no models found in qai_hub_models")
	}
	return res.Models, nil
}

// ListDevicesRaw runs `qai-hub list-devices` and returns the raw table
// text for device auto-selection. The listing command's failure reason is
// propagated verbatim.
func (c *Client) ListDevicesRaw(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	stdout, stderr, err := c.run(ctx, c.Bin, "list-devices")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w (%s)", ErrToolingMissing, c.Bin)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.New("qai-hub list-devices timed out")
		}
		return "", fmt.Errorf("qai-hub list-devices failed: %w (stderr: %s)", err, strings.TrimSpace(stderr))
	}
	return stdout, nil
}

// Validate confirms the qai-hub CLI is installed and configured by running
// a real listing. Used as the exporter's first step.
func (c *Client) Validate(ctx context.Context) error {
	out, err := c.ListDevicesRaw(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return errors.New("qai-hub list-devices returned empty output")
	}
	return nil
}

// Version returns the qai-hub CLI version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stdout, stderr, err := c.run(ctx, c.Bin, "--version")
	if err != nil {
		return "", fmt.Errorf("qai-hub --version failed: %w", err)
	}
	v := strings.TrimSpace(stdout)
	if v == "" {
		// Some CLI versions print the version to stderr.
		v = strings.TrimSpace(stderr)
	}
	return v, nil
}

// Doctor reports the health of the local installation. It never returns an
// error: a broken installation is the result, not a failure.
func (c *Client) Doctor(ctx context.Context) *DoctorResult {
	res := &DoctorResult{Notes: []string{}}

	if !c.IsAvailable() {
		res.Notes = append(res.Notes, "qai-hub binary not found")
		res.Notes = append(res.Notes, "Install with: pip install qai-hub")
	} else {
		res.BinaryFound = true
		res.BinaryPath = c.Bin
		if v, err := c.Version(ctx); err != nil {
			res.Notes = append(res.Notes, fmt.Sprintf("failed to get version: %v", err))
		} else {
			res.Version = v
		}
	}

	res.PythonFound = c.Python != ""
	if !res.PythonFound {
		res.Notes = append(res.Notes, "no python interpreter found for SDK operations")
	}

	if os.Getenv(EnvAPIToken) != "" {
		res.TokenEnvPresent = true
	} else {
		res.Notes = append(res.Notes, EnvAPIToken+" is not set")
		res.Notes = append(res.Notes, "Configure with: qai-hub configure --api_token YOUR_TOKEN")
	}

	if res.BinaryFound {
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, _, err := c.run(probeCtx, c.Bin, "list-devices", "--help"); err != nil {
			res.Notes = append(res.Notes, fmt.Sprintf("list-devices --help failed: %v", err))
		} else {
			res.Notes = append(res.Notes, "CLI commands appear functional")
		}
	}

	return res
}
