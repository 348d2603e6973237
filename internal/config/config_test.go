package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.WindowHeight)
	assert.Equal(t, "auto", cfg.Progress)
	assert.False(t, cfg.Quiet)
	assert.True(t, cfg.History)
}

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tailrun", "config.yaml")

	cfg := &Config{WindowHeight: 8, Progress: "never", Quiet: true, History: false}
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window_height: [not a number"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFromCorrectsInvalidWindowHeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window_height: 0\nhistory: true\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default().WindowHeight, cfg.WindowHeight)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiet: true\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, Default().WindowHeight, cfg.WindowHeight)
	assert.Equal(t, Default().Progress, cfg.Progress)
}

func TestSaveIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Default().SaveTo(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a save")
}

func TestPathHonorsXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "tailrun", "config.yaml"), Path())
}
