// Package render rasterizes the live galaxy on the CPU and encodes the result
// as sRGB pixels.
package render

import (
	"image"
	"math"

	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/scene"
)

// MaxPointSize caps a splat's edge length in pixels.
const MaxPointSize = 64

// Rasterizer composites point clouds into a linear RGB accumulation grid.
type Rasterizer struct {
	// Exposure scales every deposited color. Coarse targets such as a
	// terminal need more than 1 to keep sub-pixel stars visible.
	Exposure float32

	grid  *core.RGBGrid
	rgba  []byte
	drawn int
}

// NewRasterizer returns a rasterizer; the grid is sized on the first Draw.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{Exposure: 1, grid: core.NewRGBGrid(1, 1)}
}

// PointSize returns the on-screen edge length in pixels of a point at the
// given view depth. With attenuation the size falls off with distance and is
// expressed relative to half the logical viewport height.
func PointSize(m scene.Material, vp core.Viewport, depth float32) float32 {
	size := float32(m.Size * vp.PixelRatio)
	if m.SizeAttenuation {
		if depth <= 0 {
			return 0
		}
		size *= float32(vp.Height) * 0.5 / depth
	}
	return min(size, MaxPointSize)
}

// Draw clears the grid to black and composites pts as seen by cam. It returns
// the number of particles that landed inside the view volume.
func (r *Rasterizer) Draw(pts scene.Points, cam *scene.Camera) int {
	proj := NewProjector(cam, pts.Rotation)
	fb := proj.Framebuffer()
	r.grid.Resize(fb.W, fb.H)
	r.drawn = 0

	buf := pts.Buffer
	n := buf.Len()
	for i := 0; i < n; i++ {
		x, y, z := buf.Position(i)
		sx, sy, depth, ok := proj.Project(x, y, z)
		if !ok {
			continue
		}
		px := PointSize(pts.Material, cam.Viewport, depth)
		if px <= 0 {
			continue
		}
		cr, cg, cb := float32(1), float32(1), float32(1)
		if pts.Material.VertexColors {
			cr, cg, cb = buf.Color(i)
		}
		cr, cg, cb = cr*r.Exposure, cg*r.Exposure, cb*r.Exposure
		if r.splat(sx, sy, px, cr, cg, cb, pts.Material.Blending) {
			r.drawn++
		}
	}
	return r.drawn
}

// splat deposits a px-wide square centred on (sx, sy), weighting each pixel
// by the area the square covers. A sub-pixel point therefore contributes
// px*px of its color instead of a full pixel.
func (r *Rasterizer) splat(sx, sy, px, cr, cg, cb float32, blend scene.Blending) bool {
	half := px * 0.5
	x0f, x1f := sx-half, sx+half
	y0f, y1f := sy-half, sy+half
	x0 := max(int(math.Floor(float64(x0f))), 0)
	y0 := max(int(math.Floor(float64(y0f))), 0)
	x1 := min(int(math.Ceil(float64(x1f))), r.grid.W)
	y1 := min(int(math.Ceil(float64(y1f))), r.grid.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		cy := overlap(float32(y), y0f, y1f)
		if cy <= 0 {
			continue
		}
		for x := x0; x < x1; x++ {
			w := overlap(float32(x), x0f, x1f) * cy
			if w <= 0 {
				continue
			}
			if blend == scene.BlendAdditive {
				r.grid.Add(x, y, cr*w, cg*w, cb*w)
				continue
			}
			r.grid.Set(x, y, cr, cg, cb)
		}
	}
	return true
}

// overlap is the length of [p, p+1] ∩ [lo, hi].
func overlap(p, lo, hi float32) float32 {
	return max(min(p+1, hi)-max(p, lo), 0)
}

// Drawn returns the particle count of the last Draw.
func (r *Rasterizer) Drawn() int { return r.drawn }

// Grid exposes the accumulation grid of the last Draw.
func (r *Rasterizer) Grid() *core.RGBGrid { return r.grid }

// RGBA encodes the grid as 8-bit sRGB RGBA bytes. The returned slice is
// reused by the next call.
func (r *Rasterizer) RGBA() []byte {
	need := 4 * r.grid.W * r.grid.H
	if cap(r.rgba) < need {
		r.rgba = make([]byte, need)
	}
	r.rgba = r.rgba[:need]
	fillLinearRGBA(r.rgba, r.grid.Cells())
	return r.rgba
}

// Image returns a copy of the encoded frame.
func (r *Rasterizer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.grid.W, r.grid.H))
	copy(img.Pix, r.RGBA())
	return img
}
