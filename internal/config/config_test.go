package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strix.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
strix:
  logger:
    level: debug
    appenders:
      - type: console
  inspect:
    in_port: 7
    max_packets: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, uint32(7), cfg.Inspect.InPort)
	assert.Equal(t, 100, cfg.Inspect.MaxPackets)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
strix:
  inspect: {}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), cfg.Inspect.InPort)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.NotEmpty(t, cfg.Logger.Pattern)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
strix:
  inspect:
    in_port: 2
`)

	t.Setenv("STRIX_INSPECT_IN_PORT", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), cfg.Inspect.InPort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	out, err := Default().Dump()
	require.NoError(t, err)
	assert.Contains(t, string(out), "strix:")
	assert.Contains(t, string(out), "in_port: 1")
}
