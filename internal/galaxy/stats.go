package galaxy

import "math"

// Point3 is a position in galaxy space.
type Point3 struct {
	X, Y, Z float64
}

// BranchCurve samples the jitter-free centerline of one arm from the core to
// the rim. It returns nil when samples < 2 or the branch index is out of range.
func BranchCurve(p Parameters, branch, samples int) []Point3 {
	if samples < 2 || branch < 0 || branch >= p.Branches {
		return nil
	}
	base := BranchAngle(branch, p.Branches)
	out := make([]Point3, samples)
	for i := range out {
		r := p.Radius * float64(i) / float64(samples-1)
		a := base + r*p.Spin
		out[i] = Point3{X: math.Cos(a) * r, Z: math.Sin(a) * r}
	}
	return out
}

// Stats summarizes the shape of a buffer.
type Stats struct {
	Count      int
	MeanRadius float64
	MaxRadius  float64
	MaxHeight  float64
	Centroid   Point3
}

// Summarize computes planar radius and height statistics of buf.
func Summarize(buf *Buffer) Stats {
	n := buf.Len()
	s := Stats{Count: n}
	if n == 0 {
		return s
	}
	var sumR, cx, cy, cz float64
	for i := 0; i < n; i++ {
		x32, y32, z32 := buf.Position(i)
		x, y, z := float64(x32), float64(y32), float64(z32)
		r := math.Hypot(x, z)
		sumR += r
		s.MaxRadius = math.Max(s.MaxRadius, r)
		s.MaxHeight = math.Max(s.MaxHeight, math.Abs(y))
		cx += x
		cy += y
		cz += z
	}
	inv := 1 / float64(n)
	s.MeanRadius = sumR * inv
	s.Centroid = Point3{X: cx * inv, Y: cy * inv, Z: cz * inv}
	return s
}
