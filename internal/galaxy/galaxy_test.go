package galaxy

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spiral-galaxy/pkg/core"
)

func smallParams() Parameters {
	p := DefaultParameters()
	p.Count = 5000
	return p
}

// constSource returns the same sample forever.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

// seqSource replays a fixed sequence, wrapping around.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestGenerateCountMatches(t *testing.T) {
	for _, count := range []int{0, 1, 7, 1000, 36000} {
		p := DefaultParameters()
		p.Count = count
		buf, err := Generate(p, core.NewRNG(1))
		require.NoError(t, err)
		require.Equal(t, count, buf.Len())
		require.Len(t, buf.Positions, 3*count)
		require.Len(t, buf.Colors, 3*count)
	}
}

func TestGenerateEmptyBuffer(t *testing.T) {
	p := DefaultParameters()
	p.Count = 0
	buf, err := Generate(p, core.NewRNG(1))
	require.NoError(t, err)
	require.NotNil(t, buf)
	assert.Zero(t, buf.Len())
	assert.Empty(t, buf.Positions)
}

func TestGenerateFiniteIncludingZeroRadius(t *testing.T) {
	for _, radius := range []float64{0, 0.1, 5, 20} {
		p := smallParams()
		p.Radius = radius
		buf, err := Generate(p, core.NewRNG(11))
		require.NoError(t, err)
		for i, v := range buf.Positions {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("radius %v: position[%d] not finite: %v", radius, i, v)
			}
		}
		for i, v := range buf.Colors {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("radius %v: color[%d] not finite: %v", radius, i, v)
			}
		}
	}
}

func TestZeroRadiusUsesInsideColor(t *testing.T) {
	p := smallParams()
	p.Radius = 0
	p.InsideColor = MustParseColor("#ff0000")
	p.OutsideColor = MustParseColor("#0000ff")
	buf, err := Generate(p, core.NewRNG(5))
	require.NoError(t, err)
	for i := 0; i < buf.Len(); i++ {
		r, g, b := buf.Color(i)
		require.Equal(t, float32(1), r)
		require.Zero(t, g)
		require.Zero(t, b)
	}
}

func TestBranchAngleRoundRobin(t *testing.T) {
	for branches := 1; branches <= 20; branches++ {
		for i := 0; i < 100; i++ {
			require.Equal(t, BranchAngle(i, branches), BranchAngle(i+branches, branches),
				"branches=%d i=%d", branches, i)
		}
	}
	assert.Zero(t, BranchAngle(0, 3))
	assert.InDelta(t, 2*math.Pi/3, BranchAngle(1, 3), 1e-12)
	assert.InDelta(t, 4*math.Pi/3, BranchAngle(5, 3), 1e-12)
}

func TestBranchAssignmentInPositions(t *testing.T) {
	// With no jitter and no spin every particle lies on its arm's ray.
	p := DefaultParameters()
	p.Count = 600
	p.Branches = 4
	p.Spin = 0
	p.Randomness = 0
	buf, err := Generate(p, core.NewRNG(9))
	require.NoError(t, err)
	for i := 0; i < buf.Len(); i++ {
		x, y, z := buf.Position(i)
		require.Zero(t, y)
		r := math.Hypot(float64(x), float64(z))
		if r < 1e-4 {
			continue
		}
		want := BranchAngle(i, p.Branches)
		got := math.Atan2(float64(z), float64(x))
		if got < 0 {
			got += 2 * math.Pi
		}
		diff := math.Abs(math.Remainder(got-want, 2*math.Pi))
		require.Less(t, diff, 1e-4, "particle %d off its branch", i)
	}
}

func TestColorMonotonicAndBounded(t *testing.T) {
	p := DefaultParameters()
	p.Count = 3000
	p.InsideColor = MustParseColor("#ff0000")
	p.OutsideColor = MustParseColor("#0000ff")
	p.Randomness = 0
	p.Spin = 0
	buf, err := Generate(p, core.NewRNG(3))
	require.NoError(t, err)

	type sample struct{ r, red, blue float64 }
	samples := make([]sample, 0, buf.Len())
	for i := 0; i < buf.Len(); i++ {
		x, _, z := buf.Position(i)
		r, g, b := buf.Color(i)
		for _, ch := range []float32{r, g, b} {
			require.GreaterOrEqual(t, ch, float32(0))
			require.LessOrEqual(t, ch, float32(1))
		}
		require.Zero(t, g)
		samples = append(samples, sample{math.Hypot(float64(x), float64(z)), float64(r), float64(b)})
	}
	slices.SortFunc(samples, func(a, b sample) int {
		switch {
		case a.r < b.r:
			return -1
		case a.r > b.r:
			return 1
		}
		return 0
	})
	for i := 1; i < len(samples); i++ {
		require.LessOrEqual(t, samples[i].red, samples[i-1].red+1e-5)
		require.GreaterOrEqual(t, samples[i].blue, samples[i-1].blue-1e-5)
	}
}

func TestColorEndpoints(t *testing.T) {
	p := DefaultParameters()
	p.Count = 1
	p.Randomness = 0

	inner, err := Generate(p, constSource(0))
	require.NoError(t, err)
	ir, ig, ib := p.InsideColor.Linear()
	r, g, b := inner.Color(0)
	assert.InDelta(t, ir, r, 1e-6)
	assert.InDelta(t, ig, g, 1e-6)
	assert.InDelta(t, ib, b, 1e-6)

	outer, err := Generate(p, constSource(math.Nextafter(1, 0)))
	require.NoError(t, err)
	or, og, ob := p.OutsideColor.Linear()
	r, g, b = outer.Color(0)
	assert.InDelta(t, or, r, 1e-6)
	assert.InDelta(t, og, g, 1e-6)
	assert.InDelta(t, ob, b, 1e-6)
}

func TestGenerateSeededIdempotent(t *testing.T) {
	p := smallParams()
	a, err := Generate(p, core.NewRNG(1234))
	require.NoError(t, err)
	b, err := Generate(p, core.NewRNG(1234))
	require.NoError(t, err)
	require.True(t, slices.Equal(a.Positions, b.Positions))
	require.True(t, slices.Equal(a.Colors, b.Colors))

	c, err := Generate(p, core.NewRNG(4321))
	require.NoError(t, err)
	require.False(t, slices.Equal(a.Positions, c.Positions), "different seeds should differ")
}

func TestScenarioRedBlueNoJitter(t *testing.T) {
	p := Parameters{
		Count:        100,
		Radius:       5,
		Size:         0.01,
		Branches:     3,
		Spin:         0,
		Randomness:   0,
		RandPower:    1,
		InsideColor:  MustParseColor("#ff0000"),
		OutsideColor: MustParseColor("#0000ff"),
	}
	buf, err := Generate(p, core.NewRNG(77))
	require.NoError(t, err)
	require.Equal(t, 100, buf.Len())

	x, y, z := buf.Position(0)
	r0 := float64(x)
	require.GreaterOrEqual(t, r0, 0.0)
	require.LessOrEqual(t, r0, 5.0)
	assert.Zero(t, y)
	assert.InDelta(t, 0, z, 1e-6, "branch 0 with no spin lies at angle 0")

	r, g, b := buf.Color(0)
	factor := r0 / 5
	assert.Zero(t, g)
	assert.InDelta(t, 1-factor, r, 1e-5)
	assert.InDelta(t, factor, b, 1e-5)
}

func TestJitterDrawOrderAndSign(t *testing.T) {
	// radius, then (u, coin) for z, y, x.
	src := &seqSource{vals: []float64{
		0.5,      // radius -> 2.5
		0.5, 0.1, // z: +0.5
		0.5, 0.9, // y: -0.5
		1, 0.9, // x: -1
	}}
	p := Parameters{
		Count: 1, Radius: 5, Size: 0.01, Branches: 2,
		Spin: 0, Randomness: 1, RandPower: 1,
		InsideColor: MustParseColor("#000000"), OutsideColor: MustParseColor("#ffffff"),
	}
	buf, err := Generate(p, src)
	require.NoError(t, err)
	x, y, z := buf.Position(0)
	assert.InDelta(t, 2.5-1, x, 1e-6)
	assert.InDelta(t, -0.5*VerticalFlatten, y, 1e-6)
	assert.InDelta(t, 0.5, z, 1e-6)
	assert.Equal(t, 7, src.i, "one radius draw plus two draws per axis")
}

func TestRandPowerTightensArms(t *testing.T) {
	loose := smallParams()
	loose.RandPower = 1
	tight := smallParams()
	tight.RandPower = 10

	a, err := Generate(loose, core.NewRNG(8))
	require.NoError(t, err)
	b, err := Generate(tight, core.NewRNG(8))
	require.NoError(t, err)
	assert.Greater(t, Summarize(a).MaxHeight, Summarize(b).MaxHeight)
}

func TestGenerateRejectsInvalid(t *testing.T) {
	cases := map[string]func(*Parameters){
		"NegativeCount":   func(p *Parameters) { p.Count = -1 },
		"HugeCount":       func(p *Parameters) { p.Count = MaxCount + 1 },
		"NaNRadius":       func(p *Parameters) { p.Radius = math.NaN() },
		"InfSpin":         func(p *Parameters) { p.Spin = math.Inf(1) },
		"ZeroBranches":    func(p *Parameters) { p.Branches = 0 },
		"SingleBranch":    func(p *Parameters) { p.Branches = 1 },
		"ZeroSize":        func(p *Parameters) { p.Size = 0 },
		"PowerBelowOne":   func(p *Parameters) { p.RandPower = 0.5 },
		"RandomnessAbove": func(p *Parameters) { p.Randomness = 2.5 },
		"SizeAbove":       func(p *Parameters) { p.Size = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultParameters()
			mutate(&p)
			buf, err := Generate(p, core.NewRNG(1))
			require.Nil(t, buf)
			require.ErrorIs(t, err, ErrInvalidParameter)
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
		})
	}
}

func TestGenerateNilSource(t *testing.T) {
	_, err := Generate(DefaultParameters(), nil)
	require.ErrorIs(t, err, ErrNilSource)
}

func TestGenerateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf, err := GenerateContext(ctx, DefaultParameters(), core.NewRNG(1))
	require.Nil(t, buf)
	require.ErrorIs(t, err, context.Canceled)
}

// cancelAfter cancels its context once n samples have been drawn.
type cancelAfter struct {
	src    Source
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Float64() float64 {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return c.src.Float64()
}

func TestGenerateContextCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancelAfter{src: core.NewRNG(1), n: 100, cancel: cancel}
	p := DefaultParameters()
	p.Count = 50000
	buf, err := GenerateContext(ctx, p, src)
	require.Nil(t, buf)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateAllocationFailure(t *testing.T) {
	orig := makeFloats
	t.Cleanup(func() { makeFloats = orig })
	makeFloats = func(int) []float32 { panic("out of memory") }

	buf, err := Generate(smallParams(), core.NewRNG(1))
	require.Nil(t, buf)
	require.ErrorIs(t, err, ErrAllocation)
}

func TestBranchCurve(t *testing.T) {
	p := DefaultParameters()
	p.Branches = 3
	p.Spin = 0
	curve := BranchCurve(p, 0, 11)
	require.Len(t, curve, 11)
	assert.Equal(t, Point3{}, curve[0])
	assert.InDelta(t, p.Radius, curve[10].X, 1e-12)
	assert.InDelta(t, 0, curve[10].Z, 1e-12)

	assert.Nil(t, BranchCurve(p, 3, 11))
	assert.Nil(t, BranchCurve(p, 0, 1))
}

func TestSummarize(t *testing.T) {
	buf := &Buffer{
		Count:     2,
		Positions: []float32{3, 1, 4, -3, -1, -4},
		Colors:    make([]float32, 6),
	}
	s := Summarize(buf)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 5, s.MeanRadius, 1e-9)
	assert.InDelta(t, 5, s.MaxRadius, 1e-9)
	assert.InDelta(t, 1, s.MaxHeight, 1e-9)
	assert.Equal(t, Point3{}, s.Centroid)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func BenchmarkGenerateMax(b *testing.B) {
	p := DefaultParameters()
	p.Count = MaxCount
	for i := 0; i < b.N; i++ {
		if _, err := Generate(p, core.NewRNG(int64(i))); err != nil {
			b.Fatal(err)
		}
	}
}
