package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// debugEnvVar forces debug-level logging regardless of the config file.
const debugEnvVar = "PATHSOURCE_DEBUG"

// Load reads the configuration file at path. A missing file yields the
// defaults; a malformed or unknown-key file is a configuration error and is
// surfaced, not recovered from.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(debugEnvVar); v != "" && !strings.EqualFold(v, "false") && v != "0" {
		cfg.LogLevel = "debug"
	}
}
