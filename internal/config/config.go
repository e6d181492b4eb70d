// Package config loads the pathsource CLI configuration file and maps it to
// the completion option set.
package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pathsource/pkg/pathsource"
)

// Config holds the CLI configuration read from config.yaml. Field semantics
// mirror pathsource.Options; LogLevel controls logging verbosity.
type Config struct {
	LogLevel            string   `yaml:"log_level"`
	TrailingSlash       bool     `yaml:"trailing_slash"`
	LabelTrailingSlash  bool     `yaml:"label_trailing_slash"`
	ShowHiddenByDefault bool     `yaml:"show_hidden_by_default"`
	IgnorePatterns      []string `yaml:"ignore_patterns"`
	MaxPreviewLines     int      `yaml:"max_preview_lines"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		TrailingSlash:      true,
		LabelTrailingSlash: true,
		MaxPreviewLines:    8,
	}
}

// SourceOptions maps the file-level configuration to a pathsource option
// set, using cwd as the base-directory provider.
func (c *Config) SourceOptions(cwd pathsource.CwdProvider) pathsource.Options {
	opts := pathsource.DefaultOptions()
	opts.TrailingSlash = c.TrailingSlash
	opts.LabelTrailingSlash = c.LabelTrailingSlash
	opts.ShowHiddenByDefault = c.ShowHiddenByDefault
	opts.IgnorePatterns = c.IgnorePatterns
	opts.MaxPreviewLines = c.MaxPreviewLines
	if cwd != nil {
		opts.CwdProvider = cwd
	}
	return opts
}

// ZapLevel parses the configured log level, defaulting to info on anything
// unrecognized.
func (c *Config) ZapLevel() zap.AtomicLevel {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}
