package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ParsesValues(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
trailing_slash: false
show_hidden_by_default: true
ignore_patterns:
  - "*.o"
  - ".git"
max_preview_lines: 20
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.TrailingSlash)
	assert.True(t, cfg.ShowHiddenByDefault)
	assert.Equal(t, []string{"*.o", ".git"}, cfg.IgnorePatterns)
	assert.Equal(t, 20, cfg.MaxPreviewLines)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "no_such_option: true\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsBadTypes(t *testing.T) {
	path := writeConfig(t, "max_preview_lines: lots\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_DebugEnvOverride(t *testing.T) {
	t.Setenv(debugEnvVar, "1")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestZapLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, zapcore.InfoLevel, cfg.ZapLevel().Level())

	cfg.LogLevel = "warn"
	assert.Equal(t, zapcore.WarnLevel, cfg.ZapLevel().Level())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, zapcore.InfoLevel, cfg.ZapLevel().Level())
}

func TestSourceOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowHiddenByDefault = true
	cfg.IgnorePatterns = []string{"*.tmp"}

	opts := cfg.SourceOptions(nil)
	assert.True(t, opts.ShowHiddenByDefault)
	assert.Equal(t, []string{"*.tmp"}, opts.IgnorePatterns)
	assert.NotNil(t, opts.CwdProvider, "defaults to the process working directory")
	require.NoError(t, opts.Validate())
}
