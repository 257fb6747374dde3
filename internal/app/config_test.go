package app

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spiral-galaxy/internal/galaxy"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 60, cfg.TPS)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, galaxy.DefaultParameters(), cfg.Params)
}

func TestApplyEnv(t *testing.T) {
	cfg := NewConfig()
	err := cfg.applyEnv(envMap(map[string]string{
		"GALAXY_SEED":          "7",
		"GALAXY_WIDTH":         "640",
		"GALAXY_LOG_LEVEL":     "DEBUG",
		"GALAXY_LOG_JSON":      "true",
		"GALAXY_COUNT":         "5000",
		"GALAXY_INSIDE_COLOR":  "#ffffff",
		"GALAXY_RAND_POWER":    "2.5",
		"GALAXY_HEIGHT":        "  ",
		"UNRELATED_COUNT":      "1",
		"GALAXY_OUTSIDE_COLOR": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 800, cfg.Height, "blank values are ignored")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 5000, cfg.Params.Count)
	assert.Equal(t, 2.5, cfg.Params.RandPower)
	assert.Equal(t, "#ffffff", cfg.Params.InsideColor.Hex())
	assert.Equal(t, "#1b3984", cfg.Params.OutsideColor.Hex())
}

func TestApplyEnvCollectsErrors(t *testing.T) {
	cfg := NewConfig()
	err := cfg.applyEnv(envMap(map[string]string{
		"GALAXY_TPS":      "fast",
		"GALAXY_LOG_JSON": "maybe",
		"GALAXY_BRANCHES": "100",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, galaxy.ErrInvalidParameter)
	for _, name := range []string{"GALAXY_TPS", "GALAXY_LOG_JSON", "GALAXY_BRANCHES"} {
		assert.Contains(t, err.Error(), name)
	}
	assert.Equal(t, 60, cfg.TPS)
	assert.Equal(t, 6, cfg.Params.Branches)
}

func TestLoadEnvFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galaxy.env")
	require.NoError(t, os.WriteFile(path, []byte("GALAXY_SPIN=-1.5\nGALAXY_BRANCHES=9\n"), 0o644))
	t.Setenv("GALAXY_BRANCHES", "4")
	t.Cleanup(func() { os.Unsetenv("GALAXY_SPIN") })

	cfg := NewConfig()
	require.NoError(t, cfg.LoadEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, -1.5, cfg.Params.Spin)
	assert.Equal(t, 4, cfg.Params.Branches, "process environment wins over the file")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-branches", "12", "-seed", "3", "-outside_color", "#00ff00"}))
	assert.Equal(t, 12, cfg.Params.Branches, "flags win over the environment")
	assert.Equal(t, int64(3), cfg.Seed)
	assert.Equal(t, "#00ff00", cfg.Params.OutsideColor.Hex())
	assert.Equal(t, -1.5, cfg.Params.Spin)
}

func TestGalaxyFlagsRejectInvalid(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	cfg.BindGalaxy(fs)
	require.Error(t, fs.Parse([]string{"-count", "-3"}))
	require.Error(t, fs.Parse([]string{"-rand_power", "0.5"}))

	usage := fs.Lookup("rand_power")
	require.NotNil(t, usage)
	assert.Equal(t, "7.2", usage.DefValue)
}

func TestInitLoggerFormats(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLoggerTo(&buf, "warn", true)
	logger.Info("hidden")
	logger.Warn("shown", "component", "test")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "test", rec["component"])

	buf.Reset()
	InitLoggerTo(&buf, "debug", false)
	slog.Debug("text line")
	assert.Contains(t, buf.String(), "msg=\"text line\"")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestFrameStatsLogsFirstFrameOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	stats := NewFrameStats("test", time.Hour)
	now := time.Unix(100, 0)
	stats.now = func() time.Time { return now }
	for i := 0; i < 10; i++ {
		stats.Frame(5, 10)
		now = now.Add(time.Second / 60)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "frame stats"))
	assert.Contains(t, buf.String(), "drawn=5")
	assert.Contains(t, buf.String(), "component=test")
}
