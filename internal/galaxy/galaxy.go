// Package galaxy generates spiral-galaxy point clouds.
//
// Generation is a pure function of Parameters and an injected random Source:
// particles are assigned round-robin to evenly spaced arms, placed at a
// uniformly sampled radius, swept by an angle proportional to that radius and
// scattered by power-biased jitter. Colors are mixed in linear-light RGB from
// the inside color at the center to the outside color at the rim.
package galaxy

import (
	"context"
	"fmt"
	"math"
)

const (
	// VerticalFlatten scales Y jitter to give the disk its flat silhouette.
	VerticalFlatten = 0.4

	// checkEvery is how many particles are produced between cancellation checks.
	checkEvery = 4096
)

// Source supplies uniform samples in [0, 1).
type Source interface {
	Float64() float64
}

// Buffer holds interleaved xyz positions and linear rgb colors, index-aligned.
// A Buffer is never modified after Generate returns it.
type Buffer struct {
	Count     int
	Positions []float32
	Colors    []float32
}

// Len returns the number of particles.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return b.Count
}

// Position returns particle i's coordinates.
func (b *Buffer) Position(i int) (x, y, z float32) {
	i3 := i * 3
	return b.Positions[i3], b.Positions[i3+1], b.Positions[i3+2]
}

// Color returns particle i's linear rgb color.
func (b *Buffer) Color(i int) (r, g, bl float32) {
	i3 := i * 3
	return b.Colors[i3], b.Colors[i3+1], b.Colors[i3+2]
}

// BranchAngle is the base angle of the arm particle i belongs to.
func BranchAngle(i, branches int) float64 {
	if branches <= 0 {
		return 0
	}
	return float64(i%branches) / float64(branches) * 2 * math.Pi
}

// Generate builds a new buffer for p.
func Generate(p Parameters, src Source) (*Buffer, error) {
	return GenerateContext(context.Background(), p, src)
}

// GenerateContext builds a new buffer for p, returning ctx.Err() if ctx is
// cancelled before the last particle is placed. Invalid parameters are
// rejected before any allocation.
func GenerateContext(ctx context.Context, p Parameters, src Source) (*Buffer, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := allocate(p.Count)
	if err != nil {
		return nil, err
	}

	var inside, outside [3]float64
	inside[0], inside[1], inside[2] = p.InsideColor.Linear()
	outside[0], outside[1], outside[2] = p.OutsideColor.Linear()

	for i := 0; i < p.Count; i++ {
		if i%checkEvery == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		i3 := i * 3

		branchAngle := BranchAngle(i, p.Branches)
		radius := src.Float64() * p.Radius
		spinAngle := radius * p.Spin

		// Draw order matters for reproducibility: z, y, x.
		jz := jitter(src, p.RandPower, p.Randomness)
		jy := jitter(src, p.RandPower, p.Randomness)
		jx := jitter(src, p.RandPower, p.Randomness)

		angle := branchAngle + spinAngle
		buf.Positions[i3] = float32(math.Cos(angle)*radius + jx)
		buf.Positions[i3+1] = float32(jy * VerticalFlatten)
		buf.Positions[i3+2] = float32(math.Sin(angle)*radius + jz)

		mixed := lerpLinear(inside, outside, colorFactor(radius, p.Radius))
		buf.Colors[i3] = mixed[0]
		buf.Colors[i3+1] = mixed[1]
		buf.Colors[i3+2] = mixed[2]
	}
	return buf, nil
}

// jitter draws a displacement whose magnitude u^power concentrates near zero
// as power grows, mirrored to either side with equal probability.
func jitter(src Source, power, amplitude float64) float64 {
	magnitude := math.Pow(src.Float64(), power)
	sign := 1.0
	if src.Float64() >= 0.5 {
		sign = -1
	}
	return magnitude * sign * amplitude
}

// colorFactor maps a sampled radius to [0, 1]. A zero galaxy radius would
// make the ratio 0/0, so it pins the factor to the inside color.
func colorFactor(radius, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clamp01(radius / limit)
}

var makeFloats = func(n int) []float32 { return make([]float32, n) }

func allocate(count int) (buf *Buffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: %d particles: %v", ErrAllocation, count, r)
		}
	}()
	return &Buffer{
		Count:     count,
		Positions: makeFloats(3 * count),
		Colors:    makeFloats(3 * count),
	}, nil
}
