package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewportClampsPixelRatio(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"Retina", 2, 2},
		{"Dense", 3.5, 2},
		{"Standard", 1, 1},
		{"Fractional", 1.25, 1.25},
		{"Zero", 0, 1},
		{"NaN", math.NaN(), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vp := NewViewport(800, 600, tc.in)
			assert.Equal(t, tc.want, vp.PixelRatio)
		})
	}
}

func TestViewportAspectAndFramebuffer(t *testing.T) {
	vp := NewViewport(800, 400, 3)
	assert.InDelta(t, 2.0, vp.Aspect(), 1e-12)
	assert.Equal(t, Size{W: 1600, H: 800}, vp.Framebuffer())

	degenerate := NewViewport(0, 0, 1)
	assert.Equal(t, 1, degenerate.Width)
	assert.Equal(t, 1, degenerate.Height)
}

func TestRGBGridAddAccumulates(t *testing.T) {
	g := NewRGBGrid(4, 3)
	g.Add(1, 2, 0.25, 0.5, 0.125)
	g.Add(1, 2, 0.25, 0.5, 0.125)
	g.Add(-1, 0, 1, 1, 1)
	g.Add(4, 0, 1, 1, 1)

	r, gr, b := g.At(1, 2)
	assert.Equal(t, float32(0.5), r)
	assert.Equal(t, float32(1), gr)
	assert.Equal(t, float32(0.25), b)

	var sum float32
	for _, v := range g.Cells() {
		sum += v
	}
	assert.Equal(t, float32(1.75), sum, "out-of-range writes must be dropped")
}

func TestRGBGridResizeClears(t *testing.T) {
	g := NewRGBGrid(2, 2)
	g.Set(0, 0, 1, 1, 1)
	g.Resize(2, 2)
	r, _, _ := g.At(0, 0)
	assert.Zero(t, r)

	g.Resize(5, 1)
	assert.Len(t, g.Cells(), 15)
}

func TestClockPauseResume(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := newClockAt(func() time.Time { return now })

	now = now.Add(3 * time.Second)
	require.Equal(t, 3*time.Second, clock.Elapsed())

	clock.Toggle()
	require.True(t, clock.Paused())
	now = now.Add(10 * time.Second)
	require.Equal(t, 3*time.Second, clock.Elapsed(), "paused clock must not advance")

	clock.Toggle()
	now = now.Add(2 * time.Second)
	require.Equal(t, 5*time.Second, clock.Elapsed(), "resume must not include paused time")
}

func TestFixedStepAccumulates(t *testing.T) {
	now := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return now }

	require.True(t, fs.ShouldStep(), "first call consumes the pre-filled step")
	require.False(t, fs.ShouldStep())
	now = now.Add(150 * time.Millisecond)
	require.True(t, fs.ShouldStep())
	require.Equal(t, 100*time.Millisecond, fs.Step())
}

func TestParameterControlClamp(t *testing.T) {
	ctrl := ParameterControl{Min: 1, Max: 10, HasMin: true, HasMax: true}
	assert.Equal(t, 1.0, ctrl.Clamp(-4))
	assert.Equal(t, 10.0, ctrl.Clamp(40))
	assert.Equal(t, 5.5, ctrl.Clamp(5.5))

	open := ParameterControl{}
	assert.Equal(t, -4.0, open.Clamp(-4))
}

func TestParameterSnapshotLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "Size", Params: []Parameter{{Key: "count", Value: "100"}}},
		{Name: "Colors", Params: []Parameter{{Key: "inside_color", Value: "#ff0000"}}},
	}}
	p, ok := snap.Lookup("inside_color")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", p.Value)

	_, ok = snap.Lookup("missing")
	assert.False(t, ok)
}
