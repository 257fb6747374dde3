package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/scene"
)

// Projector maps object-space points to framebuffer pixels.
type Projector struct {
	mvp  mgl32.Mat4
	fb   core.Size
	near float32
	far  float32
}

// NewProjector combines cam with an object rotation.
func NewProjector(cam *scene.Camera, rot scene.Rotation) Projector {
	return Projector{
		mvp:  cam.ViewProjection().Mul4(scene.Model(rot)),
		fb:   cam.Viewport.Framebuffer(),
		near: cam.Near,
		far:  cam.Far,
	}
}

// Project returns the framebuffer position of (x, y, z) and its view depth.
// ok is false when the point lies outside the near/far range.
func (p Projector) Project(x, y, z float32) (sx, sy, depth float32, ok bool) {
	clip := p.mvp.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := clip.W()
	if w < p.near || w > p.far {
		return 0, 0, 0, false
	}
	nx := clip.X() / w
	ny := clip.Y() / w
	sx = (nx*0.5 + 0.5) * float32(p.fb.W)
	sy = (0.5 - ny*0.5) * float32(p.fb.H)
	return sx, sy, w, true
}

// Framebuffer returns the target size in pixels.
func (p Projector) Framebuffer() core.Size { return p.fb }
