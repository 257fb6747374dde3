//go:build ebiten

package app

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"
	"spiral-galaxy/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
)

const (
	dragRadiansPerPixel = 0.01
	wheelZoomStep       = 0.9
)

// Game adapts the galaxy scene to the ebiten.Game interface.
type Game struct {
	ctrl    *Controller
	adapter *scene.Adapter
	backend *render.Backend

	cam     *scene.Camera
	orbit   *scene.Orbit
	clock   *core.Clock
	raster  *render.Rasterizer
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	stats   *FrameStats

	dragging   bool
	lastX      int
	lastY      int
	saving     atomic.Bool
	screenW    int
	cancelWork context.CancelFunc
	log        *slog.Logger
}

// New constructs a Game and queues the first generation.
func New(cfg *Config) *Game {
	backend := render.NewBackend()
	adapter := scene.NewAdapter(backend)
	ctrl := NewController(adapter, cfg.Params, cfg.Seed)
	ctx, cancel := context.WithCancel(context.Background())
	ctrl.Start(ctx)
	ctrl.Refresh()

	cam := scene.NewCamera(cfg.Width, cfg.Height, ebiten.DeviceScaleFactor())
	fb := cam.Viewport.Framebuffer()
	return &Game{
		ctrl:       ctrl,
		adapter:    adapter,
		backend:    backend,
		cam:        cam,
		orbit:      scene.NewOrbit(cam),
		clock:      core.NewClock(),
		raster:     render.NewRasterizer(),
		painter:    render.NewGridPainter(fb.W, fb.H),
		hud:        ui.NewHUD(ctrl, cfg.HUDWidth),
		overlay:    ui.NewOverlay(ctrl),
		stats:      NewFrameStats("window", StatsInterval),
		cancelWork: cancel,
		log:        slog.With("component", "window"),
	}
}

// Close stops background generation and releases the live galaxy.
func (g *Game) Close() {
	g.ctrl.Close()
	g.cancelWork()
	g.adapter.Release()
	g.log.Debug("closed", "operation", "close", "live_resources", g.backend.Live())
}

// Update handles input, installs finished generations and advances time.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.clock.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.ctrl.Refresh()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.ctrl.Reseed(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.saveSnapshot()
	}

	g.hud.Update(g.screenW)
	g.overlay.Update()
	g.handleCamera()

	g.ctrl.Poll()
	g.adapter.Update(g.clock.Elapsed())
	g.orbit.Update(g.cam)
	return nil
}

func (g *Game) handleCamera() {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.hud.Contains(mx, my) {
		g.dragging = true
		g.lastX, g.lastY = mx, my
	}
	if g.dragging {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragging = false
		} else {
			dx, dy := mx-g.lastX, my-g.lastY
			g.orbit.Rotate(-float64(dx)*dragRadiansPerPixel, -float64(dy)*dragRadiansPerPixel)
			g.lastX, g.lastY = mx, my
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 && !g.hud.Contains(mx, my) {
		g.orbit.Zoom(math.Pow(wheelZoomStep, wy))
	}
}

// Draw renders the live galaxy, then the overlay and the settings panel.
func (g *Game) Draw(screen *ebiten.Image) {
	pts, ok := g.adapter.Current()
	if ok {
		drawn := g.raster.Draw(pts, g.cam)
		g.painter.Blit(screen, g.raster)
		g.stats.Frame(drawn, pts.Buffer.Len())
		g.overlay.Draw(screen, g.cam, pts)
	}
	g.hud.Draw(screen)
}

// Layout sizes the framebuffer to the window in device pixels, with the pixel
// ratio capped at core.MaxPixelRatio.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.cam.Resize(outsideWidth, outsideHeight, ebiten.DeviceScaleFactor())
	fb := g.cam.Viewport.Framebuffer()
	g.screenW = fb.W
	return fb.W, fb.H
}

// saveSnapshot captures the current frame and asks where to write it. The
// dialog runs off the frame goroutine.
func (g *Game) saveSnapshot() {
	if !g.saving.CompareAndSwap(false, true) {
		return
	}
	var img *image.RGBA
	if _, ok := g.adapter.Current(); ok {
		img = g.raster.Image()
	}
	if img == nil {
		g.saving.Store(false)
		return
	}
	go func() {
		defer g.saving.Store(false)
		path, err := zenity.SelectFileSave(
			zenity.Title("Save Galaxy Snapshot"),
			zenity.Filename("galaxy.png"),
			zenity.ConfirmOverwrite(),
			zenity.FileFilters{{
				Name:     "PNG image",
				Patterns: []string{"*.png"},
			}},
		)
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				g.log.Error("save dialog failed", "operation", "snapshot", "error", err)
			}
			return
		}
		if !strings.HasSuffix(strings.ToLower(path), ".png") {
			path += ".png"
		}
		if err := render.SavePNG(path, img); err != nil {
			g.log.Error("snapshot failed", "operation", "snapshot", "path", path, "error", err)
			return
		}
		g.log.Info("snapshot saved", "operation", "snapshot", "path", path)
	}()
}
