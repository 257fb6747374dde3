package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"spiral-galaxy/internal/core"
)

// Camera defaults.
const (
	DefaultFOV  = 75
	DefaultNear = 0.1
	DefaultFar  = 100
)

// DefaultPosition is where the camera starts, looking at the origin.
var DefaultPosition = mgl32.Vec3{3, 3, 3}

// Camera is a perspective camera with a Y-up orientation.
type Camera struct {
	FOV      float32 // vertical, degrees
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Viewport core.Viewport
}

// NewCamera returns the default camera for a surface of the given logical
// size and device pixel ratio.
func NewCamera(width, height int, pixelRatio float64) *Camera {
	c := &Camera{
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: DefaultPosition,
	}
	c.Resize(width, height, pixelRatio)
	return c
}

// Resize updates the aspect ratio and framebuffer size. The pixel ratio is
// clamped to core.MaxPixelRatio.
func (c *Camera) Resize(width, height int, pixelRatio float64) {
	c.Viewport = core.NewViewport(width, height, pixelRatio)
}

// Projection returns the perspective matrix for the current viewport.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), float32(c.Viewport.Aspect()), c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Model returns the object-to-world matrix for a rotation. Euler angles are
// applied X first, then Y, matching an XYZ-ordered rotation.
func Model(r Rotation) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(r.X)).Mul4(mgl32.HomogRotate3DY(float32(r.Y)))
}
