package galaxy

import (
	"image/color"
	"math"

	"spiral-galaxy/internal/core"
)

// SettingsTitle is the heading of the control panel.
const SettingsTitle = "Galaxy Settings"

// Snapshot groups the current values the way the control panel shows them.
func (p Parameters) Snapshot() core.ParameterSnapshot {
	snap := core.ParameterSnapshot{Title: SettingsTitle}
	index := map[string]int{}
	add := func(group string, param core.Parameter) {
		i, ok := index[group]
		if !ok {
			i = len(snap.Groups)
			index[group] = i
			snap.Groups = append(snap.Groups, core.ParameterGroup{Name: group})
		}
		snap.Groups[i].Params = append(snap.Groups[i].Params, param)
	}
	for _, f := range fields {
		add(f.group, core.Parameter{
			Key:   f.key,
			Label: f.label,
			Type:  f.typ,
			Value: formatValue(f, f.get(&p)),
		})
	}
	for _, f := range colorFields {
		add(groupColors, core.Parameter{
			Key:   f.key,
			Label: f.label,
			Type:  core.ParamTypeColor,
			Value: f.get(&p).Hex(),
		})
	}
	return snap
}

// Controls lists the adjustable controls with their UI ranges and steps.
func Controls() []core.ParameterControl {
	controls := make([]core.ParameterControl, 0, len(fields)+len(colorFields))
	for _, f := range fields {
		controls = append(controls, core.ParameterControl{
			Key:    f.key,
			Label:  f.label,
			Group:  f.group,
			Type:   f.typ,
			Step:   f.step,
			Min:    f.uiMin,
			Max:    f.uiMax,
			HasMin: true,
			HasMax: true,
		})
	}
	for _, f := range colorFields {
		controls = append(controls, core.ParameterControl{
			Key:   f.key,
			Label: f.label,
			Group: groupColors,
			Type:  core.ParamTypeColor,
		})
	}
	return controls
}

// SetIntParameter clamps value into the UI range of an integer control and
// stores it. It reports false for unknown or non-integer keys.
func (p *Parameters) SetIntParameter(key string, value int) bool {
	f, ok := lookupField(key)
	if !ok || f.typ != core.ParamTypeInt {
		return false
	}
	f.set(p, clampUI(f, float64(value)))
	return true
}

// SetFloatParameter clamps value into the UI range of a float control and
// stores it. Non-finite values are refused.
func (p *Parameters) SetFloatParameter(key string, value float64) bool {
	f, ok := lookupField(key)
	if !ok || f.typ != core.ParamTypeFloat {
		return false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	f.set(p, clampUI(f, value))
	return true
}

// SetColorParameter stores a color control.
func (p *Parameters) SetColorParameter(key string, value color.Color) bool {
	f, ok := lookupColorField(key)
	if !ok || value == nil {
		return false
	}
	f.set(p, FromColor(value))
	return true
}

func clampUI(f field, v float64) float64 {
	if v < f.uiMin {
		return f.uiMin
	}
	if v > f.uiMax {
		return f.uiMax
	}
	return v
}
