package core

// RGBGrid stores a 2D grid of linear RGB float32 samples in row-major order.
// It is the accumulation target for additive point compositing.
type RGBGrid struct {
	W, H int
	data []float32
}

// NewRGBGrid allocates a grid with the given dimensions.
func NewRGBGrid(w, h int) *RGBGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &RGBGrid{W: w, H: h, data: make([]float32, 3*w*h)}
}

// Cells exposes the backing slice (three floats per cell) so callers can read
// values directly.
func (g *RGBGrid) Cells() []float32 { return g.data }

// Index returns the slice index of the red channel for coordinates (x, y).
func (g *RGBGrid) Index(x, y int) int { return 3 * (y*g.W + x) }

// InBounds reports whether (x, y) lies inside the grid.
func (g *RGBGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// Add accumulates a color into the cell at (x, y). Out-of-range coordinates
// are ignored.
func (g *RGBGrid) Add(x, y int, r, gr, b float32) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.Index(x, y)
	g.data[i] += r
	g.data[i+1] += gr
	g.data[i+2] += b
}

// Set overwrites the cell at (x, y). Out-of-range coordinates are ignored.
func (g *RGBGrid) Set(x, y int, r, gr, b float32) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.Index(x, y)
	g.data[i] = r
	g.data[i+1] = gr
	g.data[i+2] = b
}

// At returns the color stored at (x, y).
func (g *RGBGrid) At(x, y int) (r, gr, b float32) {
	if !g.InBounds(x, y) {
		return 0, 0, 0
	}
	i := g.Index(x, y)
	return g.data[i], g.data[i+1], g.data[i+2]
}

// Resize reallocates the grid when the dimensions change and clears it.
func (g *RGBGrid) Resize(w, h int) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if w == g.W && h == g.H {
		g.Clear()
		return
	}
	g.W, g.H = w, h
	g.data = make([]float32, 3*w*h)
}

// Clear fills the grid with zeros.
func (g *RGBGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
