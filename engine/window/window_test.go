package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "Hello World", w.title)
	width, height := w.FramebufferSize()
	assert.Equal(t, 1280, width)
	assert.Equal(t, 720, height)
	assert.Equal(t, sizeUnlimited, w.maxWidth)

	w = newEngineWindow(
		WithTitle("cubes"),
		WithSize(800, 600),
		WithMinSize(0, 100),
		WithMaxSize(1920, 1080),
		WithCursorCaptured(true),
	)
	assert.Equal(t, "cubes", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, sizeUnlimited, w.minWidth)
	assert.Equal(t, 100, w.minHeight)
	assert.Equal(t, 1080, w.maxHeight)
	assert.True(t, w.CursorCaptured())

	w = newEngineWindow(WithSize(0, 600))
	assert.Equal(t, 1280, w.width, "invalid size keeps the default")
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		in   glfw.Action
		want common.KeyAction
	}{
		{glfw.Press, common.KeyPress},
		{glfw.Repeat, common.KeyRepeat},
		{glfw.Release, common.KeyRelease},
	}
	for _, tt := range tests {
		got, ok := keyAction(tt.in)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := keyAction(glfw.Action(42))
	assert.False(t, ok)
}

func TestUncreatedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.PollEvents())
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, w.RequestClose)
	assert.NotPanics(t, func() { w.SetCursorCaptured(true) })
}
