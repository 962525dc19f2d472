package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Theme)
	assert.Equal(t, 6, cfg.KeyLength)
	assert.Equal(t, 1000, cfg.HistoryCap)
	assert.True(t, cfg.ConfirmNav)

	_, err = os.Stat(path)
	assert.NoError(t, err, "first load should write the default config")
}

func TestLoadFrom_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.path = path
	cfg.Theme = "gruvbox"
	cfg.Homepage = "https://go.dev"
	cfg.Basename = "/reader"
	cfg.KeyLength = 10
	cfg.ForceRefresh = true
	require.NoError(t, cfg.Save())

	loaded, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", loaded.Theme)
	assert.Equal(t, "https://go.dev", loaded.Homepage)
	assert.Equal(t, "/reader", loaded.Basename)
	assert.Equal(t, 10, loaded.KeyLength)
	assert.True(t, loaded.ForceRefresh)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = \"mono\"\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, "https://html.duckduckgo.com/html/?q=%s", cfg.SearchEngine)
	assert.Equal(t, 6, cfg.KeyLength)
}

func TestLoadFrom_BadValuesClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("key_length = -3\nhistory_cap = 0\n"), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.KeyLength)
	assert.Equal(t, 1000, cfg.HistoryCap)
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = [unclosed\n"), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
