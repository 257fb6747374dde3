package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DampingFactor is the fraction of pending motion applied per update.
const DampingFactor = 0.05

const (
	minPolar = 1e-4
	maxPolar = math.Pi - 1e-4
)

// Orbit moves a camera on a sphere around its target. Input accumulates into
// pending deltas that decay by DampingFactor each Update, so motion eases
// out after the input stops.
type Orbit struct {
	Damping     float64
	MinDistance float64
	MaxDistance float64

	radius  float64
	azimuth float64
	polar   float64

	dAzimuth float64
	dPolar   float64
	scale    float64
}

// NewOrbit derives the orbit state from the camera's current placement.
func NewOrbit(cam *Camera) *Orbit {
	o := &Orbit{
		Damping:     DampingFactor,
		MinDistance: 0.5,
		MaxDistance: 50,
		scale:       1,
	}
	offset := cam.Position.Sub(cam.Target)
	o.radius, o.azimuth, o.polar = toSpherical(offset)
	return o
}

// Rotate queues a rotation in radians: azimuth about the Y axis and polar
// angle from it.
func (o *Orbit) Rotate(dAzimuth, dPolar float64) {
	o.dAzimuth += dAzimuth
	o.dPolar += dPolar
}

// Zoom queues a multiplicative change of distance; factors below 1 move in.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	o.scale *= factor
}

// Update applies pending motion to cam and decays it.
func (o *Orbit) Update(cam *Camera) {
	d := o.Damping
	if d <= 0 || d > 1 {
		d = 1
	}
	o.azimuth += o.dAzimuth * d
	o.polar += o.dPolar * d
	o.polar = math.Min(math.Max(o.polar, minPolar), maxPolar)
	o.radius = math.Min(math.Max(o.radius*o.scale, o.MinDistance), o.MaxDistance)

	o.dAzimuth *= 1 - d
	o.dPolar *= 1 - d
	o.scale = 1

	cam.Position = cam.Target.Add(fromSpherical(o.radius, o.azimuth, o.polar))
}

// Distance returns the current camera distance from the target.
func (o *Orbit) Distance() float64 { return o.radius }

// Settled reports whether pending rotation has decayed below eps.
func (o *Orbit) Settled(eps float64) bool {
	return math.Abs(o.dAzimuth) < eps && math.Abs(o.dPolar) < eps
}

func toSpherical(v mgl32.Vec3) (radius, azimuth, polar float64) {
	x, y, z := float64(v.X()), float64(v.Y()), float64(v.Z())
	radius = math.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return 0, 0, math.Pi / 2
	}
	azimuth = math.Atan2(x, z)
	polar = math.Acos(math.Max(-1, math.Min(1, y/radius)))
	return radius, azimuth, polar
}

func fromSpherical(radius, azimuth, polar float64) mgl32.Vec3 {
	s := math.Sin(polar) * radius
	return mgl32.Vec3{
		float32(s * math.Sin(azimuth)),
		float32(math.Cos(polar) * radius),
		float32(s * math.Cos(azimuth)),
	}
}
