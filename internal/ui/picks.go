package ui

import (
	"image/color"

	"spiral-galaxy/internal/core"
)

// colorPick carries a color dialog result back to the frame goroutine. A
// dismissed or failed dialog yields a pick with no value.
type colorPick struct {
	key   string
	value color.Color
}

func newColorPick(key string, picked color.Color, err error) colorPick {
	if err != nil {
		return colorPick{key: key}
	}
	return colorPick{key: key, value: picked}
}

// apply hands the chosen color to setter. Empty picks never commit, so a
// cancelled dialog does not regenerate the galaxy.
func (p colorPick) apply(setter core.ColorParameterSetter) bool {
	if p.value == nil || setter == nil {
		return false
	}
	return setter.SetColorParameter(p.key, p.value)
}
