package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spiral-galaxy/internal/galaxy"
)

func TestValuesIncludeEndpoints(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, values(0, 1, 3))
	assert.Equal(t, []float64{2}, values(2, 9, 1))
}

func TestSweepKeepsOrderAndWritesImages(t *testing.T) {
	base := galaxy.DefaultParameters()
	base.Count = 2000
	dir := t.TempDir()

	results, err := sweep(context.Background(), base, sweepConfig{
		key: "radius", from: 1, to: 4, steps: 4, workers: 3, seed: 7,
		outDir: dir, width: 32, height: 24,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, 2000, r.stats.Count)
		assert.GreaterOrEqual(t, r.stats.MaxRadius, r.stats.MeanRadius)
		_, err := os.Stat(r.path)
		assert.NoError(t, err)
		if i > 0 {
			assert.Greater(t, r.stats.MeanRadius, results[i-1].stats.MeanRadius)
		}
	}
	assert.Equal(t, filepath.Join(dir, "radius_000.png"), results[0].path)

	var out bytes.Buffer
	report(&out, "radius", results)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
}

func TestFormatValueRoundsIntegers(t *testing.T) {
	assert.Equal(t, "4", formatValue("branches", 3.6))
	assert.Equal(t, "2.25", formatValue("spin", 2.25))
}

func TestSweepRejectsUnknownKey(t *testing.T) {
	_, err := sweep(context.Background(), galaxy.DefaultParameters(), sweepConfig{key: "mass", steps: 2})
	assert.Error(t, err)
}

func TestSweepReportsInvalidValue(t *testing.T) {
	base := galaxy.DefaultParameters()
	base.Count = 10
	_, err := sweep(context.Background(), base, sweepConfig{key: "branches", from: -3, to: 2, steps: 2, workers: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, galaxy.ErrInvalidParameter)
}
