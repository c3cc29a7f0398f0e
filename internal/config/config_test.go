package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, DefaultTimezone, cfg.DefaultTimezone)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.TimezoneAware)
	assert.False(t, cfg.Verbose)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queryspec.yaml")
	content := `
store_path: /tmp/queries.db
event_file: event.yaml
default_timezone: UTC
timezone_aware: true
output: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/queries.db", cfg.StorePath)
	assert.Equal(t, "event.yaml", cfg.EventFile)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.True(t, cfg.TimezoneAware)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queryspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_path: from-file.db\n"), 0o644))

	t.Setenv("QUERYSPEC_STORE_PATH", "from-env.db")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.StorePath)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	t.Setenv("QUERYSPEC_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	flags.String("store-path", "", "")
	require.NoError(t, flags.Parse([]string{"--output", "table", "--store-path", "flag.db"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "flag.db", cfg.StorePath)
}

func TestLoadUnsetFlagsDoNotOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store-path", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultStorePath, cfg.StorePath)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queryspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_timezone: Mars/Olympus\n"), 0o644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}
