package galaxy

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB color with channels in [0, 1]. Interpolation never happens
// on these values directly: Linear converts to linear-light RGB first.
type Color colorful.Color

// ParseColor reads "#rrggbb" or "#rgb"; the leading '#' is optional.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidParameter, s, err)
	}
	return Color(c), nil
}

// MustParseColor is ParseColor for compile-time constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromColor converts any image/color value, ignoring alpha.
func FromColor(c color.Color) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{}
	}
	// Undo alpha premultiplication before normalizing.
	return Color{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return colorful.Color(c).Clamped().RGBA()
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color(c).Clamped().Hex()
}

// Linear returns the color in linear-light RGB.
func (c Color) Linear() (r, g, b float64) {
	return colorful.Color(c).Clamped().LinearRgb()
}

func (c Color) String() string { return c.Hex() }

// lerpLinear mixes two linear RGB triples and clamps the result to [0, 1].
func lerpLinear(a, b [3]float64, t float64) [3]float32 {
	var out [3]float32
	for i := range out {
		out[i] = float32(clamp01(a[i] + (b[i]-a[i])*t))
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
