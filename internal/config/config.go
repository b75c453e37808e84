// Package config loads tool configuration from the user config file and the
// environment. Precedence is CLI flag, then AIHUB_* environment variable,
// then config file; the flag layer is applied by the commands themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration file (~/.config/aihub/config.yaml).
type Config struct {
	// Hub access
	HubBin string `yaml:"hub_bin" envconfig:"HUB_BIN"`
	Python string `yaml:"python" envconfig:"PYTHON"`

	// Export defaults
	Device        string `yaml:"device" envconfig:"DEVICE"`
	TargetRuntime string `yaml:"target_runtime" envconfig:"TARGET_RUNTIME"`
	OutputBase    string `yaml:"output_base" envconfig:"OUTPUT_BASE"`

	// Timing, in seconds
	ExportTimeout *int64 `yaml:"export_timeout" envconfig:"EXPORT_TIMEOUT"`
	PollInterval  *int64 `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`

	// Extra model name aliases, merged over the built-in table.
	// Environment overrides do not reach into this map.
	Aliases map[string]string `yaml:"aliases" envconfig:"-"`

	// Output
	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// Server
	ServerAddress string `yaml:"server_address" envconfig:"SERVER_ADDRESS"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "aihub", "config.yaml")
}

// Load reads the config file and applies AIHUB_* environment overrides on
// top. A missing file is not an error; a malformed file or environment
// value is.
func Load() (Config, error) {
	cfg, err := loadFile(configPath())
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := envconfig.Process("aihub", cfg); err != nil {
		return fmt.Errorf("reading AIHUB_* environment: %w", err)
	}
	return nil
}

func loadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
