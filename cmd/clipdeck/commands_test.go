package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against an isolated config and data dir
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeWav(t *testing.T, path string, d time.Duration) {
	t.Helper()
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, wav.Encode(f, generators.Silence(format.SampleRate.N(d)), format))
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return filepath.Join(home, "data")
}

func TestLibraryCommands(t *testing.T) {
	data := isolate(t)
	src := filepath.Join(t.TempDir(), "air horn.wav")
	writeWav(t, src, 100*time.Millisecond)

	common := []string{"--data-dir", data, "--backend", "file", "--headless"}
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(args, common...)...)
		require.NoError(t, err, out)
		return out
	}

	out := run("import", src)
	id, name, ok := strings.Cut(strings.TrimSpace(out), "\t")
	require.True(t, ok, out)
	assert.Equal(t, "air horn", name)

	assert.Contains(t, run("list"), "air horn")

	assert.Contains(t, run("map", "b2-long", id), "air horn")
	assert.FileExists(t, filepath.Join(data, "mappings.json"))

	run("rename", id, "klaxon")
	assert.Contains(t, run("triggers"), "klaxon")

	assert.Contains(t, run("fire", "b2-long"), "Playing: klaxon")
	assert.Contains(t, run("fire", "b1-short"), "No sound mapped yet.")

	run("delete", id)
	assert.NotContains(t, run("triggers"), "klaxon")
	assert.NotContains(t, run("list"), id)
}

func TestMapRejectsUnknownSound(t *testing.T) {
	data := isolate(t)
	_, err := execute(t, "map", "b1-short", "nope", "--data-dir", data, "--backend", "memory", "--headless")
	assert.ErrorContains(t, err, "no sound")

	_, err = execute(t, "map", "b9-short", "--data-dir", data, "--backend", "memory", "--headless")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "clipdeck.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err, out)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "sim_interval: 1.5s")
	assert.Contains(t, out, "fire_b1_short")
}
