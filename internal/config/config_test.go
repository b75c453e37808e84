package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device: Snapdragon X Elite CRD
target_runtime: precompiled_qnn_onnx
export_timeout: 900
aliases:
  sd: stable_diffusion_v2_1
`)
	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if cfg.Device != "Snapdragon X Elite CRD" {
		t.Fatalf("device = %q", cfg.Device)
	}
	if cfg.ExportTimeout == nil || *cfg.ExportTimeout != 900 {
		t.Fatalf("export_timeout = %v", cfg.ExportTimeout)
	}
	if cfg.Aliases["sd"] != "stable_diffusion_v2_1" {
		t.Fatalf("aliases = %v", cfg.Aliases)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := loadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Device != "" || cfg.ExportTimeout != nil || cfg.Aliases != nil {
		t.Fatalf("expected zero config, got %#v", cfg)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeConfig(t, "device: [unclosed")
	if _, err := loadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("AIHUB_DEVICE", "Samsung Galaxy S24")
	t.Setenv("AIHUB_POLL_INTERVAL", "10")

	var cfg Config
	cfg.Device = "Snapdragon X Elite CRD"
	if err := applyEnv(&cfg); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Device != "Samsung Galaxy S24" {
		t.Fatalf("device = %q", cfg.Device)
	}
	if cfg.PollInterval == nil || *cfg.PollInterval != 10 {
		t.Fatalf("poll_interval = %v", cfg.PollInterval)
	}
}
