package ui

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSetter struct {
	calls []string
}

func (s *recordingSetter) SetColorParameter(key string, _ color.Color) bool {
	s.calls = append(s.calls, key)
	return true
}

func TestDismissedColorDialogDoesNotCommit(t *testing.T) {
	setter := &recordingSetter{}
	red := color.RGBA{R: 255, A: 255}

	assert.False(t, newColorPick("inside_color", red, errors.New("dialog canceled")).apply(setter))
	assert.False(t, newColorPick("inside_color", nil, nil).apply(setter))
	assert.Empty(t, setter.calls)

	assert.True(t, newColorPick("outside_color", red, nil).apply(setter))
	assert.Equal(t, []string{"outside_color"}, setter.calls)
}

func TestColorPickWithoutSetter(t *testing.T) {
	assert.False(t, newColorPick("inside_color", color.White, nil).apply(nil))
}
