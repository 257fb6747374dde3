package galaxy

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"spiral-galaxy/internal/core"
)

// MaxCount is the largest particle count the generator accepts.
const MaxCount = 1_000_000

// Parameters holds every input of one generation call.
type Parameters struct {
	Count      int
	Radius     float64
	Size       float64
	Branches   int
	Spin       float64
	Randomness float64
	RandPower  float64

	InsideColor  Color
	OutsideColor Color
}

// DefaultParameters returns the starter galaxy.
func DefaultParameters() Parameters {
	return Parameters{
		Count:        36000,
		Radius:       5,
		Size:         0.01,
		Branches:     6,
		Spin:         3.1,
		Randomness:   1.3,
		RandPower:    7.2,
		InsideColor:  MustParseColor("#a82600"),
		OutsideColor: MustParseColor("#1b3984"),
	}
}

// field binds one numeric parameter to its control metadata. ui* bounds are
// what the control panel exposes; min/max are the generation domain, which is
// wider at the low end so degenerate galaxies (no particles, zero radius, no
// jitter) can still be generated.
type field struct {
	key   string
	label string
	group string
	typ   core.ParamType
	step  float64
	uiMin float64
	uiMax float64
	min   float64
	max   float64
	get   func(*Parameters) float64
	set   func(*Parameters, float64)
}

const (
	groupSize      = "Size"
	groupModifiers = "Modifiers"
	groupColors    = "Colors"
)

var fields = []field{
	{
		key: "count", label: "Number of Stars", group: groupSize, typ: core.ParamTypeInt,
		step: 100, uiMin: 1000, uiMax: MaxCount, min: 0, max: MaxCount,
		get: func(p *Parameters) float64 { return float64(p.Count) },
		set: func(p *Parameters, v float64) { p.Count = int(math.Round(v)) },
	},
	{
		key: "size", label: "Star Size", group: groupSize, typ: core.ParamTypeFloat,
		step: 0.0001, uiMin: 0.00001, uiMax: 0.1, min: 0.00001, max: 0.1,
		get: func(p *Parameters) float64 { return p.Size },
		set: func(p *Parameters, v float64) { p.Size = v },
	},
	{
		key: "radius", label: "Branch Size", group: groupSize, typ: core.ParamTypeFloat,
		step: 0.01, uiMin: 0.1, uiMax: 20, min: 0, max: 20,
		get: func(p *Parameters) float64 { return p.Radius },
		set: func(p *Parameters, v float64) { p.Radius = v },
	},
	{
		key: "branches", label: "Number of Branches", group: groupSize, typ: core.ParamTypeInt,
		step: 1, uiMin: 2, uiMax: 20, min: 2, max: 20,
		get: func(p *Parameters) float64 { return float64(p.Branches) },
		set: func(p *Parameters, v float64) { p.Branches = int(math.Round(v)) },
	},
	{
		key: "spin", label: "Spin", group: groupModifiers, typ: core.ParamTypeFloat,
		step: 0.01, uiMin: -5, uiMax: 5, min: -5, max: 5,
		get: func(p *Parameters) float64 { return p.Spin },
		set: func(p *Parameters, v float64) { p.Spin = v },
	},
	{
		key: "randomness", label: "Randomness", group: groupModifiers, typ: core.ParamTypeFloat,
		step: 0.001, uiMin: 0.01, uiMax: 2, min: 0, max: 2,
		get: func(p *Parameters) float64 { return p.Randomness },
		set: func(p *Parameters, v float64) { p.Randomness = v },
	},
	{
		key: "rand_power", label: "Randomness Expon.", group: groupModifiers, typ: core.ParamTypeFloat,
		step: 0.001, uiMin: 1, uiMax: 10, min: 1, max: 10,
		get: func(p *Parameters) float64 { return p.RandPower },
		set: func(p *Parameters, v float64) { p.RandPower = v },
	},
}

type colorField struct {
	key   string
	label string
	get   func(*Parameters) Color
	set   func(*Parameters, Color)
}

var colorFields = []colorField{
	{
		key: "inside_color", label: "Inner Color",
		get: func(p *Parameters) Color { return p.InsideColor },
		set: func(p *Parameters, c Color) { p.InsideColor = c },
	},
	{
		key: "outside_color", label: "Outer Color",
		get: func(p *Parameters) Color { return p.OutsideColor },
		set: func(p *Parameters, c Color) { p.OutsideColor = c },
	},
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

func lookupColorField(key string) (colorField, bool) {
	for _, f := range colorFields {
		if f.key == key {
			return f, true
		}
	}
	return colorField{}, false
}

// Validate reports every field outside its generation domain. The returned
// error wraps one *ParamError per offending field and matches
// ErrInvalidParameter.
func (p Parameters) Validate() error {
	var errs []error
	for _, f := range fields {
		v := f.get(&p)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < f.min || v > f.max {
			errs = append(errs, &ParamError{Field: f.key, Value: v, Min: f.min, Max: f.max})
		}
	}
	for _, f := range colorFields {
		c := f.get(&p)
		for _, ch := range [...]float64{c.R, c.G, c.B} {
			if math.IsNaN(ch) || math.IsInf(ch, 0) {
				errs = append(errs, &ParamError{Field: f.key, Value: ch, Min: 0, Max: 1})
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Set assigns a parameter from its string form. Numeric values are checked
// against the generation domain; colors accept "#rrggbb".
func (p *Parameters) Set(key, value string) error {
	if cf, ok := lookupColorField(key); ok {
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		cf.set(p, c)
		return nil
	}
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	var v float64
	switch f.typ {
	case core.ParamTypeInt:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidParameter, key, value, err)
		}
		v = float64(parsed)
	default:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidParameter, key, value, err)
		}
		v = parsed
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < f.min || v > f.max {
		return &ParamError{Field: key, Value: v, Min: f.min, Max: f.max}
	}
	f.set(p, v)
	return nil
}

// Get returns the string form of a parameter.
func (p Parameters) Get(key string) (string, bool) {
	if cf, ok := lookupColorField(key); ok {
		return cf.get(&p).Hex(), true
	}
	f, ok := lookupField(key)
	if !ok {
		return "", false
	}
	return formatValue(f, f.get(&p)), true
}

// Keys lists every parameter key in presentation order.
func Keys() []string {
	keys := make([]string, 0, len(fields)+len(colorFields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	for _, f := range colorFields {
		keys = append(keys, f.key)
	}
	return keys
}

// FromMap populates parameters from a string map (flag-style key/value
// pairs). Unknown keys and invalid values are ignored.
func FromMap(cfg map[string]string) Parameters {
	p := DefaultParameters()
	if cfg == nil {
		return p
	}
	for _, key := range Keys() {
		if v, ok := cfg[key]; ok {
			_ = p.Set(key, v)
		}
	}
	return p
}

// ToMap is the inverse of FromMap.
func (p Parameters) ToMap() map[string]string {
	out := make(map[string]string, len(fields)+len(colorFields))
	for _, key := range Keys() {
		v, _ := p.Get(key)
		out[key] = v
	}
	return out
}

// LogValue implements slog.LogValuer.
func (p Parameters) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", p.Count),
		slog.Float64("radius", p.Radius),
		slog.Float64("size", p.Size),
		slog.Int("branches", p.Branches),
		slog.Float64("spin", p.Spin),
		slog.Float64("randomness", p.Randomness),
		slog.Float64("rand_power", p.RandPower),
		slog.String("inside_color", p.InsideColor.Hex()),
		slog.String("outside_color", p.OutsideColor.Hex()),
	)
}

func formatValue(f field, v float64) string {
	if f.typ == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
