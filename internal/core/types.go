package core

import "math"

// MaxPixelRatio caps the device pixel ratio used for the output surface.
const MaxPixelRatio = 2.0

// Size describes integer dimensions in pixels or cells.
type Size struct {
	W int
	H int
}

// Viewport describes the output surface in logical pixels plus the device
// pixel ratio applied when allocating the framebuffer.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float64
}

// NewViewport builds a viewport, clamping the pixel ratio to MaxPixelRatio.
// Non-positive or non-finite ratios fall back to 1.
func NewViewport(width, height int, pixelRatio float64) Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		pixelRatio = 1
	}
	return Viewport{Width: width, Height: height, PixelRatio: math.Min(pixelRatio, MaxPixelRatio)}
}

// Aspect returns width / height.
func (v Viewport) Aspect() float64 {
	if v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Framebuffer returns the physical pixel dimensions of the surface.
func (v Viewport) Framebuffer() Size {
	ratio := v.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	w := int(math.Round(float64(v.Width) * ratio))
	h := int(math.Round(float64(v.Height) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Size{W: w, H: h}
}
