//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

type paramsProvider interface {
	Params() galaxy.Parameters
}

const guideSamples = 64

// Overlay draws optional debugging visuals on top of the galaxy: the ideal
// arm centerlines (key 1) and buffer statistics (key 2).
type Overlay struct {
	source     any
	showGuides bool
	showStats  bool

	curves    [][]galaxy.Point3
	curvesFor galaxy.Parameters

	stats    galaxy.Stats
	statsFor *galaxy.Buffer
}

// NewOverlay constructs an overlay reading parameters from source, which
// should provide Params() galaxy.Parameters.
func NewOverlay(source any) *Overlay {
	return &Overlay{source: source}
}

// Update toggles overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showGuides = !o.showGuides
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showStats = !o.showStats
	}
}

// Draw renders the enabled layers for the live galaxy.
func (o *Overlay) Draw(screen *ebiten.Image, cam *scene.Camera, pts scene.Points) {
	if o.showGuides {
		if provider, ok := o.source.(paramsProvider); ok {
			o.drawGuides(screen, cam, pts.Rotation, provider.Params())
		}
	}
	if o.showStats {
		o.drawStats(screen, pts)
	}
}

func (o *Overlay) drawGuides(screen *ebiten.Image, cam *scene.Camera, rot scene.Rotation, p galaxy.Parameters) {
	if o.curves == nil || o.curvesFor != p {
		o.curves = o.curves[:0]
		for b := 0; b < p.Branches; b++ {
			o.curves = append(o.curves, galaxy.BranchCurve(p, b, guideSamples))
		}
		o.curvesFor = p
	}
	proj := render.NewProjector(cam, rot)
	for b, curve := range o.curves {
		col := guideColor(b, len(o.curves))
		var px, py float32
		have := false
		for _, pt := range curve {
			sx, sy, _, ok := proj.Project(float32(pt.X), float32(pt.Y), float32(pt.Z))
			if !ok {
				have = false
				continue
			}
			if have {
				vector.StrokeLine(screen, px, py, sx, sy, 1.5, col, true)
			}
			px, py, have = sx, sy, true
		}
	}
}

func (o *Overlay) drawStats(screen *ebiten.Image, pts scene.Points) {
	if o.statsFor != pts.Buffer {
		o.stats = galaxy.Summarize(pts.Buffer)
		o.statsFor = pts.Buffer
	}
	s := o.stats
	lines := []string{
		fmt.Sprintf("fps        %.1f", ebiten.ActualFPS()),
		fmt.Sprintf("particles  %d", s.Count),
		fmt.Sprintf("mean r     %.3f", s.MeanRadius),
		fmt.Sprintf("max r      %.3f", s.MaxRadius),
		fmt.Sprintf("max |y|    %.3f", s.MaxHeight),
		fmt.Sprintf("centroid   %.2f %.2f %.2f", s.Centroid.X, s.Centroid.Y, s.Centroid.Z),
	}
	face := basicfont.Face7x13
	vector.DrawFilledRect(screen, 6, 6, 220, float32(len(lines)*16+10), color.RGBA{R: 0, G: 0, B: 0, A: 170}, false)
	for i, line := range lines {
		text.Draw(screen, line, face, 12, 22+i*16, color.RGBA{R: 210, G: 220, B: 230, A: 255})
	}
}

func guideColor(i, n int) color.RGBA {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	return lerpRGBA(color.RGBA{R: 90, G: 200, B: 255, A: 200}, color.RGBA{R: 255, G: 120, B: 200, A: 200}, t)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
