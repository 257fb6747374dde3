package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestTerminalDefaultCount(t *testing.T) {
	t.Setenv("GALAXY_COUNT", "")
	cfg, err := loadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, defaultCount, cfg.Params.Count)
}

func TestEnvironmentCountIsNotCapped(t *testing.T) {
	t.Setenv("GALAXY_COUNT", "50000")
	cfg, err := loadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 50000, cfg.Params.Count)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GALAXY_COUNT", "50000")
	cfg, err := loadConfig(missingEnvFile(t))
	require.NoError(t, err)

	fs := flag.NewFlagSet("galaxy-term", flag.ContinueOnError)
	logFile := bindFlags(fs, cfg)
	require.NoError(t, fs.Parse([]string{"-count", "60000", "-log-file", "out.log"}))
	assert.Equal(t, 60000, cfg.Params.Count)
	assert.Equal(t, "out.log", *logFile)
}
