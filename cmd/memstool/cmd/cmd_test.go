package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roffe/memslog/pkg/diag"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLogs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.log", "a.txt", "notes.md", "c.TXT"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	logs, err := findLogs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.log")}, logs)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memstool.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema = "a"
temperature = "fahrenheit"
workers = 8
`), 0o644))

	require.NoError(t, rootCmd.ParseFlags([]string{
		"--config", path,
		"--schema", "b",
		"--lambda-mean", "historical",
	}))
	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, rosco.VersionB, cfg.Schema, "flag wins over file")
	assert.Equal(t, normalize.TempFahrenheit, cfg.Temperature, "file value kept")
	assert.Equal(t, diag.LambdaMeanHistorical, cfg.LambdaMean)
	assert.Equal(t, 8, cfg.Workers)
}

func TestConfigLoadedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memstool.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 3\n"), 0o644))

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", path}))
	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NoError(t, os.Remove(path))

	opts, cfg := runOptions()
	assert.Len(t, opts, 1)
	assert.Equal(t, 3, cfg.Workers, "commands reuse the config read before they run")
	assert.Same(t, runConfig, cfg)
}
