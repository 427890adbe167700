package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/clipdeck/input"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/clipdeck-test
backend: sqlite
volume: 0.5
sim_interval: 2s
debug: true
keys:
  D: toggle_sim
  "9": fire_b3_double
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/clipdeck-test", cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, 2*time.Second, cfg.SimInterval)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/clipdeck-test/logs", cfg.LogDir)
	assert.Equal(t, "/tmp/clipdeck-test/media", cfg.MediaDir())
	assert.Equal(t, path, cfg.File)

	kt, err := cfg.KeyTable()
	require.NoError(t, err)
	assert.Equal(t, input.IntentToggleSim, kt.NormalRunes['D'].Intent, "upper-case keys survive")
	assert.Equal(t, input.IntentFire, kt.NormalRunes['9'].Intent)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "backend: file\n")
	t.Setenv("CLIPDECK_BACKEND", "memory")
	t.Setenv("CLIPDECK_SIM_INTERVAL", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.SimInterval)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Backend = "redis"
	cfg.Volume = 2
	cfg.SimInterval = time.Millisecond
	cfg.Keys = map[string]string{"1": "explode"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"backend", "volume", "sim_interval", "keys"} {
		assert.ErrorContains(t, err, field)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "volume: -1\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "volume")
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefault(path, false))
	assert.ErrorContains(t, WriteDefault(path, false), "already exists")
	require.NoError(t, WriteDefault(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var view fileView
	require.NoError(t, yaml.Unmarshal(data, &view))
	assert.Equal(t, "1.5s", view.SimInterval)
	assert.Equal(t, "file", view.Backend)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().SimInterval, cfg.SimInterval)
	assert.Equal(t, Default().DataDir, cfg.DataDir)
}
