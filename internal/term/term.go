// Package term renders the live galaxy in a terminal with half-block cells
// and edits parameters from the keyboard.
package term

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"spiral-galaxy/internal/app"
	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/galaxy"
	"spiral-galaxy/internal/render"
	"spiral-galaxy/internal/scene"
)

const (
	frameInterval = 33 * time.Millisecond
	statusLines   = 2
	hueStep       = 10.0
	orbitStep     = 0.15
	zoomStep      = 0.9
	orbitTPS      = 60
	maxCatchUp    = 8

	// DefaultExposure compensates for the few pixels a terminal offers.
	DefaultExposure = 24
)

// Viewer draws the galaxy into a tcell screen.
type Viewer struct {
	screen   tcell.Screen
	ctrl     *app.Controller
	adapter  *scene.Adapter
	cam      *scene.Camera
	orbit    *scene.Orbit
	steps    *core.FixedStep
	clock    *core.Clock
	raster   *render.Rasterizer
	stats    *app.FrameStats
	controls []core.ParameterControl
	selected int
	log      *slog.Logger
}

// NewViewer binds an initialised screen to a controller and its adapter.
func NewViewer(screen tcell.Screen, ctrl *app.Controller, adapter *scene.Adapter) *Viewer {
	w, h := screen.Size()
	cam := scene.NewCamera(max(w, 1), max(2*(h-statusLines), 1), 1)
	raster := render.NewRasterizer()
	raster.Exposure = DefaultExposure
	return &Viewer{
		screen:   screen,
		ctrl:     ctrl,
		adapter:  adapter,
		cam:      cam,
		orbit:    scene.NewOrbit(cam),
		steps:    core.NewFixedStep(orbitTPS),
		clock:    core.NewClock(),
		raster:   raster,
		stats:    app.NewFrameStats("terminal", app.StatsInterval),
		controls: ctrl.ParameterControls(),
		log:      slog.With("component", "terminal"),
	}
}

// Run processes input and draws frames until ctx is done or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	v.log.Debug("viewer started", "operation", "run", "controls", len(v.controls))
	v.Frame()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Frame()
		}
	}
}

// HandleEvent applies one input event. It returns false when the user asks
// to quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		w, h := v.screen.Size()
		v.cam.Resize(max(w, 1), max(2*(h-statusLines), 1), 1)
	case *tcell.EventKey:
		mult := 1
		if ev.Modifiers()&tcell.ModShift != 0 {
			mult = 10
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab, tcell.KeyDown:
			v.selected = (v.selected + 1) % len(v.controls)
		case tcell.KeyBacktab, tcell.KeyUp:
			v.selected = (v.selected + len(v.controls) - 1) % len(v.controls)
		case tcell.KeyRight:
			v.Adjust(mult)
		case tcell.KeyLeft:
			v.Adjust(-mult)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'r':
		v.ctrl.Refresh()
	case 's':
		v.ctrl.Reseed(time.Now().UnixNano())
	case ' ':
		v.clock.Toggle()
	case 'h':
		v.orbit.Rotate(-orbitStep, 0)
	case 'l':
		v.orbit.Rotate(orbitStep, 0)
	case 'k':
		v.orbit.Rotate(0, -orbitStep)
	case 'j':
		v.orbit.Rotate(0, orbitStep)
	case '+', '=':
		v.orbit.Zoom(zoomStep)
	case '-':
		v.orbit.Zoom(1 / zoomStep)
	case ']':
		v.raster.Exposure *= 1.25
	case '[':
		v.raster.Exposure /= 1.25
	}
	return true
}

// Selected returns the control currently being edited.
func (v *Viewer) Selected() core.ParameterControl { return v.controls[v.selected] }

// Adjust moves the selected control by dir steps. Colors rotate hue.
func (v *Viewer) Adjust(dir int) {
	ctrl := v.Selected()
	current, ok := v.ctrl.Params().Get(ctrl.Key)
	if !ok {
		return
	}
	switch ctrl.Type {
	case core.ParamTypeInt:
		n, err := strconv.Atoi(current)
		if err != nil {
			return
		}
		step := max(int(math.Round(ctrl.Step)), 1)
		v.ctrl.SetIntParameter(ctrl.Key, n+dir*step)
	case core.ParamTypeFloat:
		f, err := strconv.ParseFloat(current, 64)
		if err != nil {
			return
		}
		v.ctrl.SetFloatParameter(ctrl.Key, f+float64(dir)*ctrl.Step)
	case core.ParamTypeColor:
		c, err := galaxy.ParseColor(current)
		if err != nil {
			return
		}
		v.ctrl.SetColorParameter(ctrl.Key, rotateHue(c, float64(dir)*hueStep))
	}
}

// rotateHue turns c around the HSV hue circle by deg degrees.
func rotateHue(c galaxy.Color, deg float64) galaxy.Color {
	h, s, val := colorful.Color(c).Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	return galaxy.Color(colorful.Hsv(h, s, val).Clamped())
}

// Frame installs finished generations, advances time and redraws.
func (v *Viewer) Frame() {
	v.ctrl.Poll()
	v.adapter.Update(v.clock.Elapsed())
	// Damping is tuned per tick, so the orbit advances at a fixed rate
	// whatever the terminal refresh rate.
	for i := 0; i < maxCatchUp && v.steps.ShouldStep(); i++ {
		v.orbit.Update(v.cam)
	}

	v.screen.Clear()
	w, h := v.screen.Size()
	if pts, ok := v.adapter.Current(); ok {
		drawn := v.raster.Draw(pts, v.cam)
		v.blit(w, h-statusLines)
		v.stats.Frame(drawn, pts.Buffer.Len())
	}
	v.drawStatus(w, h)
	v.screen.Show()
}

// blit maps two vertical pixels onto each cell with an upper half block.
func (v *Viewer) blit(cols, rows int) {
	grid := v.raster.Grid()
	rgba := v.raster.RGBA()
	pixel := func(x, y int) tcell.Color {
		if x >= grid.W || y >= grid.H {
			return tcell.ColorBlack
		}
		i := 4 * (y*grid.W + x)
		return tcell.NewRGBColor(int32(rgba[i]), int32(rgba[i+1]), int32(rgba[i+2]))
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.Foreground(pixel(x, 2*y)).Background(pixel(x, 2*y+1))
			v.screen.SetContent(x, y, '▀', nil, style)
		}
	}
}

func (v *Viewer) drawStatus(cols, rows int) {
	if rows < statusLines {
		return
	}
	ctrl := v.Selected()
	value, _ := v.ctrl.Params().Get(ctrl.Key)
	line := fmt.Sprintf(" %s / %s: %s ", ctrl.Group, ctrl.Label, value)
	valueStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	if ctrl.Type == core.ParamTypeColor {
		if c, err := galaxy.ParseColor(value); err == nil {
			r, g, b, _ := c.RGBA()
			valueStyle = valueStyle.Background(tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)))
		}
	}
	putString(v.screen, 0, rows-2, line, valueStyle)
	if v.clock.Paused() {
		putString(v.screen, len([]rune(line))+1, rows-2, "paused", tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	help := "tab/↑↓ select  ←→ adjust  r regen  s reseed  hjkl orbit  +- zoom  [] exposure  q quit"
	putString(v.screen, 0, rows-1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func putString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
