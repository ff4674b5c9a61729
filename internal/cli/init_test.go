package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_NonInteractiveWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	err := Init(&buf, InitOptions{Dir: dir, NonInteractive: true})
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := config.DefaultConfig()
	assert.Equal(t, want.Fields, cfg.Fields)
	assert.Equal(t, want.Interval, cfg.Interval)
	assert.Equal(t, config.CurrentConfigVersion, cfg.Version)

	assert.Contains(t, buf.String(), "Created "+path)
	assert.Contains(t, buf.String(), "10 fields enabled")
	assert.Contains(t, buf.String(), config.EnvInstance)
}

func TestInit_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("interval: 1m\n"), 0o644))

	err := Init(&bytes.Buffer{}, InitOptions{Dir: dir, NonInteractive: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(&bytes.Buffer{}, InitOptions{Dir: dir, NonInteractive: true, Overwrite: true}))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInterval.String(), cfg.Interval)
}

func TestInitCommandFlags(t *testing.T) {
	force := initCmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)
	assert.NotNil(t, initCmd.Flags().Lookup("non-interactive"))
}
