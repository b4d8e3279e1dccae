package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesSampleConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	out, err := execute(t, "init", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample config to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "specroute configuration")
	assert.Contains(t, string(data), "validators:")
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := execute(t, "init", "--out", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestInit_ForceOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := execute(t, "init", "--out", path, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "specroute configuration")
}

func TestInit_ScaffoldedConfigLoads(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "specroute.yaml")

	_, err := execute(t, "init", "--out", path)
	require.NoError(t, err)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	// Everything is commented out, so the defaults apply.
	assert.Equal(t, []string{"**/*.json"}, cfg.Include)
	assert.Equal(t, 500, cfg.Watch.Debounce)
}
