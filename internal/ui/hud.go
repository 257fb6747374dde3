//go:build ebiten

package ui

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strconv"

	"spiral-galaxy/internal/core"
	"spiral-galaxy/internal/galaxy"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the settings panel along the right edge of the window. It
// starts collapsed; Tab toggles it.
type HUD struct {
	target     any
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	open       bool

	rows         []hudRow
	controls     []hudControlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	colorSetter  core.ColorParameterSetter
	panelOffsetX int
	title        string

	picks   chan colorPick
	picking bool
	log     *slog.Logger
}

// hudRow is either a group header (control < 0) or a control line.
type hudRow struct {
	group   string
	control int
}

// NewHUD constructs a HUD for target, which should implement the core
// parameter interfaces, and a panel width in pixels.
func NewHUD(target any, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{
		target: target,
		width:  width,
		title:  galaxy.SettingsTitle,
		picks:  make(chan colorPick, 1),
		log:    slog.With("component", "hud"),
	}
	if provider, ok := target.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
		h.layoutControls()
	}
	if provider, ok := target.(core.ParameterProvider); ok {
		if snap := provider.Parameters(); snap.Title != "" {
			h.title = snap.Title
		}
	}
	if setter, ok := target.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := target.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	if setter, ok := target.(core.ColorParameterSetter); ok {
		h.colorSetter = setter
	}
	return h
}

// Contains reports whether the screen point lies over the panel.
func (h *HUD) Contains(x, y int) bool {
	if h == nil || h.width <= 0 {
		return false
	}
	if x < h.panelOffsetX || x >= h.panelOffsetX+h.width {
		return false
	}
	return y < h.visibleHeight()
}

func (h *HUD) visibleHeight() int {
	if !h.open {
		return closedHeight
	}
	return controlsTop + len(h.rows)*lineHeight + panelPadding
}

// Update refreshes the cached snapshot and handles panel interactions.
// screenWidth is the width of the framebuffer the panel is anchored to.
func (h *HUD) Update(screenWidth int) {
	if h == nil || h.width <= 0 {
		return
	}
	h.panelOffsetX = screenWidth - h.width
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		h.open = !h.open
	}
	h.applyPicks()
	provider, ok := h.target.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the panel anchored to the right edge of screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.visibleHeight()
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 230})
	if h.open {
		h.drawControls()
	} else {
		h.drawHeader("[Tab] open")
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(h.panelOffsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) applyPicks() {
	for {
		select {
		case pick := <-h.picks:
			h.picking = false
			pick.apply(h.colorSetter)
		default:
			return
		}
	}
}

func (h *HUD) refreshControlValues() {
	if len(h.controls) == 0 {
		return
	}
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.floatValue = parsed
			state.value = formatFloat(state.control, parsed)
			state.hasValue = true
		case core.ParamTypeColor:
			c, err := galaxy.ParseColor(param.Value)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.colorValue = c
			state.value = param.Value
			state.hasValue = true
		default:
			state.hasValue = false
			state.value = "--"
		}
	}
}

func (h *HUD) handleInput() {
	if !h.open || len(h.controls) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	mult := 1
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mult = 10
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if state.control.Type == core.ParamTypeColor {
			if pointInRect(px, my, state.swatchRect) {
				h.pickColor(state)
				return
			}
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -mult)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, mult)
			return
		}
	}
}

// pickColor opens the native color dialog off the frame goroutine; the
// choice is applied on a later Update.
func (h *HUD) pickColor(state *hudControlState) {
	if h.picking || h.colorSetter == nil {
		return
	}
	h.picking = true
	key, label, current := state.control.Key, state.control.Label, state.colorValue
	go func() {
		picked, err := zenity.SelectColor(
			zenity.Title(label),
			zenity.Color(current),
		)
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			h.log.Error("color dialog failed", "operation", "pick_color", "key", key, "error", err)
		}
		h.picks <- newColorPick(key, picked, err)
	}()
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	if state == nil || direction == 0 {
		return
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return
		}
		target := int(math.Round(state.control.Clamp(float64(state.intValue + direction*intStep(state.control)))))
		if target == state.intValue {
			return
		}
		if h.intSetter.SetIntParameter(state.control.Key, target) {
			state.intValue = target
			state.floatValue = float64(target)
			state.value = strconv.Itoa(target)
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return
		}
		target := state.control.Clamp(state.floatValue + float64(direction)*floatStep(state.control))
		if math.Abs(target-state.floatValue) < 1e-12 {
			return
		}
		if h.floatSetter.SetFloatParameter(state.control.Key, target) {
			state.floatValue = target
			state.value = formatFloat(state.control, target)
		}
	}
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	if state == nil || direction == 0 {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return false
		}
		target := float64(state.intValue + direction*intStep(state.control))
		return state.control.Clamp(target) != float64(state.intValue)
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return false
		}
		target := state.floatValue + float64(direction)*floatStep(state.control)
		return math.Abs(state.control.Clamp(target)-state.floatValue) >= 1e-12
	default:
		return false
	}
}

func (h *HUD) drawHeader(hint string) {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	bounds := text.BoundString(face, hint)
	text.Draw(h.panel, hint, face, h.width-panelPadding-bounds.Dx(), panelPadding+headerBaseline, color.RGBA{R: 130, G: 130, B: 140, A: 255})
}

func (h *HUD) drawControls() {
	if h.panel == nil {
		return
	}
	h.drawHeader("[Tab] close")
	face := basicfont.Face7x13
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop+labelBaseline, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}
	for r, row := range h.rows {
		top := controlsTop + r*lineHeight
		if row.control < 0 {
			text.Draw(h.panel, row.group, face, panelPadding, top+labelBaseline, color.RGBA{R: 150, G: 170, B: 220, A: 255})
			vector.StrokeLine(h.panel, panelPadding, float32(top+lineHeight-6), float32(h.width-panelPadding), float32(top+lineHeight-6), 1, color.RGBA{R: 60, G: 64, B: 80, A: 255}, false)
			continue
		}
		state := &h.controls[row.control]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}

		if state.control.Type == core.ParamTypeColor {
			h.drawSwatch(state)
			bounds := text.BoundString(face, state.value)
			text.Draw(h.panel, state.value, face, state.swatchRect.Min.X-buttonGap-bounds.Dx(), labelY, valueColor)
			continue
		}

		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		minusEnabled := state.hasValue && h.canAdjust(state, -1)
		plusEnabled := state.hasValue && h.canAdjust(state, 1)
		h.drawButton(state.minusRect, "-", minusEnabled)
		h.drawButton(state.plusRect, "+", plusEnabled)
	}
}

func (h *HUD) drawSwatch(state *hudControlState) {
	rect := state.swatchRect
	var fill color.Color = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	if state.hasValue {
		fill = state.colorValue
	}
	vector.DrawFilledRect(h.panel, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), fill, false)
	border := color.RGBA{R: 120, G: 120, B: 130, A: 255}
	if h.picking {
		border = color.RGBA{R: 230, G: 200, B: 90, A: 255}
	}
	vector.StrokeRect(h.panel, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), 1, border, false)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	vector.DrawFilledRect(h.panel, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + (rect.Dy()-textHeight)/2 + textHeight
	text.Draw(h.panel, label, face, x, y, fg)
}

// layoutControls assigns every control a row, inserting a header row
// whenever the group changes.
func (h *HUD) layoutControls() {
	if len(h.controls) == 0 || h.width <= 0 {
		return
	}
	h.rows = h.rows[:0]
	group := ""
	for i := range h.controls {
		if g := h.controls[i].control.Group; g != "" && g != group {
			group = g
			h.rows = append(h.rows, hudRow{group: g, control: -1})
		}
		top := controlsTop + len(h.rows)*lineHeight
		h.rows = append(h.rows, hudRow{control: i})

		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
		h.controls[i].swatchRect = image.Rect(minusRect.Min.X, buttonY, plusRect.Max.X, buttonY+buttonSize)
	}
}

func intStep(ctrl core.ParameterControl) int {
	step := int(math.Round(ctrl.Step))
	if step <= 0 {
		step = 1
	}
	return step
}

func floatStep(ctrl core.ParameterControl) float64 {
	if ctrl.Step <= 0 {
		return 0.05
	}
	return ctrl.Step
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := floatStep(ctrl)
	precision := 1
	switch {
	case step < 0.001:
		precision = 5
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	colorValue galaxy.Color
	hasValue   bool

	top        int
	minusRect  image.Rectangle
	plusRect   image.Rectangle
	swatchRect image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 30
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 14
	labelBaseline  = 19
	closedHeight   = panelPadding*2 + headerBaseline + 4
	controlsTop    = panelPadding + headerBaseline + 14
)
