//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads encoded frames into a single ebiten image.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
}

// NewGridPainter allocates a painter for a w*h framebuffer.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{}
	gp.resize(w, h)
	return gp
}

func (gp *GridPainter) resize(w, h int) {
	if gp.img != nil && gp.w == w && gp.h == h {
		return
	}
	if gp.img != nil {
		gp.img.Deallocate()
	}
	gp.w, gp.h = w, h
	gp.img = ebiten.NewImage(w, h)
}

// Blit uploads the rasterizer's current frame and draws it at the origin.
func (gp *GridPainter) Blit(dst *ebiten.Image, r *Rasterizer) {
	grid := r.Grid()
	gp.resize(grid.W, grid.H)
	gp.img.WritePixels(r.RGBA())
	dst.DrawImage(gp.img, nil)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
