package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window, its event stream and the frame clock.
// Events are delivered through callbacks during PollEvents, on the calling thread.
type Window interface {
	// SetKeyCallback sets the function called for every key transition.
	//
	// Parameters:
	//   - callback: function receiving the key and whether it was pressed, repeated or released
	SetKeyCallback(callback func(key common.Key, action common.KeyAction))

	// SetCursorPosCallback sets the function called when the cursor moves.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in screen coordinates
	SetCursorPosCallback(callback func(x, y float64))

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetCloseCallback sets the function called when the user asks to close the window.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetCloseCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window events without blocking, running the callbacks.
	//
	// Returns:
	//   - bool: false once the window should close
	PollEvents() bool

	// IsRunning returns true until the window is asked to close.
	IsRunning() bool

	// RequestClose marks the window for closing. The next PollEvents returns false.
	RequestClose()

	// SetCursorCaptured hides and locks the cursor for mouse look, or restores it.
	//
	// Parameters:
	//   - captured: true to capture the cursor
	SetCursorCaptured(captured bool)

	// CursorCaptured reports whether the cursor is currently captured.
	CursorCaptured() bool

	// Time returns the seconds elapsed since the window system was initialized.
	//
	// Returns:
	//   - float64: the monotonic frame clock
	Time() float64

	// FramebufferSize returns the drawable size in pixels, which differs from the window
	// size on high-DPI displays.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	// width and height are the requested window size, then the current framebuffer size.
	width, height int

	minWidth, minHeight int
	maxWidth, maxHeight int

	cursorCaptured bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onKey       func(key common.Key, action common.KeyAction)
	onCursorPos func(x, y float64)
	onResize    func(width, height int)
	onClose     func()
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Applies default values first, then each option in order.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "Hello World",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 240,
		maxWidth:  sizeUnlimited,
		maxHeight: sizeUnlimited,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetKeyCallback(callback func(key common.Key, action common.KeyAction)) {
	w.onKey = callback
}

func (w *engineWindow) SetCursorPosCallback(callback func(x, y float64)) {
	w.onCursorPos = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetCloseCallback(callback func()) {
	w.onClose = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	w.cursorCaptured = captured
	platformSetCursorCaptured(w, captured)
}

func (w *engineWindow) CursorCaptured() bool {
	return w.cursorCaptured
}

func (w *engineWindow) Time() float64 {
	return platformTime()
}

func (w *engineWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}
