package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/input"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
)

// engine implements the Engine interface.
// Everything runs on the thread that calls Run: window events, camera updates and drawing.
type engine struct {
	quitOnce  sync.Once
	closeOnce sync.Once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera
	input    input.Controller
	scene    scene.Scene
	watcher  shader.Watcher

	profiler         *profiler.Profiler
	profilingEnabled bool

	cameraSpeed     float32
	lastTime        float64
	reloadRequested bool
	frames          uint64
}

// Engine is the main entry point for the engine.
// It owns the window, renderer, camera, input and scene, and drives them from one loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Camera returns the fly camera.
	Camera() camera.Camera

	// Scene returns the cube scene, or nil when none is attached.
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Frames returns the number of loop iterations run so far.
	Frames() uint64

	// Run polls events, moves the camera, draws the scene and presents until the window
	// closes. A panic inside the loop is recovered, logged and returned as an error.
	//
	// Returns:
	//   - error: a frame error or a recovered panic
	Run() error

	// Quit asks the window to close; Run returns after the current iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Close releases the watcher, scene, renderer and window. Safe to call multiple times.
	//
	// Returns:
	//   - error: the window close error
	Close() error
}

// NewEngine creates a new Engine instance with the provided options and subscribes to the
// window's key, cursor, resize and close events.
//
// Parameters:
//   - options: functional options supplying the window, renderer, camera, input and scene
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler:    profiler.NewProfiler(),
		cameraSpeed: 2.5,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.input == nil {
		e.input = input.NewController()
	}

	if e.window != nil {
		e.window.SetKeyCallback(e.onKey)
		e.window.SetCursorPosCallback(e.onCursor)
		e.window.SetResizeCallback(e.onResize)
		e.window.SetCloseCallback(e.Quit)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() (err error) {
	if e.window == nil {
		return errors.New("engine has no window")
	}
	// Recover from panics inside the loop so the caller can still release GPU resources.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render loop recovered from panic: %v", r)
			e.Quit()
			err = fmt.Errorf("render loop panic: %v", r)
		}
	}()

	e.lastTime = e.window.Time()
	for e.window.PollEvents() {
		now := e.window.Time()
		delta := float32(now - e.lastTime)
		e.lastTime = now

		e.update(delta)
		if err := e.render(now); err != nil {
			return err
		}
		e.frames++

		if e.profilingEnabled && e.profiler != nil {
			e.profiler.Tick()
		}
	}
	return nil
}

// update moves the camera by the held keys and handles pending shader reloads.
func (e *engine) update(delta float32) {
	e.input.Apply(e.camera.Controller(), delta*e.cameraSpeed)
	e.camera.Update()

	e.drainWatcher()
	if e.reloadRequested {
		e.reloadRequested = false
		if e.scene != nil {
			// ReloadShaders logs and keeps the previous pipeline on failure.
			_ = e.scene.ReloadShaders()
		}
	}
}

// drainWatcher turns queued shader file changes into one reload request.
func (e *engine) drainWatcher() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-e.watcher.Changes():
			if !ok {
				e.watcher = nil
				return
			}
			log.Printf("[Engine] %s changed", path)
			e.reloadRequested = true
		default:
			return
		}
	}
}

// render draws one frame. A skipped frame (minimized window) is not an error.
func (e *engine) render(now float64) error {
	if e.renderer == nil || e.scene == nil {
		return nil
	}

	err := e.renderer.BeginFrame()
	switch {
	case errors.Is(err, renderer.ErrSkipFrame):
		return nil
	case err != nil:
		// Usually an outdated swapchain; reconfigure and try again next iteration.
		log.Printf("[Engine] begin frame: %v", err)
		e.renderer.Resize(e.window.FramebufferSize())
		return nil
	}

	e.scene.SetTime(float32(now))
	_, frameErr := e.scene.Frame(e.camera.ViewMatrix(), e.camera.ProjectionMatrix())
	e.renderer.EndFrame()
	e.renderer.Present()
	return frameErr
}

func (e *engine) onKey(key common.Key, action common.KeyAction) {
	switch e.input.HandleKey(key, action) {
	case input.IntentQuit:
		e.Quit()
	case input.IntentToggleCursor:
		e.window.SetCursorCaptured(!e.window.CursorCaptured())
	case input.IntentReload:
		e.reloadRequested = true
	}
}

func (e *engine) onCursor(x, y float64) {
	// The reference point follows the cursor while it is released so recapturing does not jump.
	xOffset, yOffset := e.input.HandleCursor(x, y)
	if !e.window.CursorCaptured() {
		return
	}
	e.camera.Controller().Look(xOffset, yOffset)
	e.camera.Update()
}

func (e *engine) onResize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if height > 0 {
		e.camera.SetAspect(float32(width) / float32(height))
	}
}

// Quit asks the window to close. Safe to call multiple times.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

func (e *engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.watcher != nil {
			if werr := e.watcher.Close(); werr != nil {
				log.Printf("[Engine] close shader watcher: %v", werr)
			}
		}
		if e.scene != nil {
			e.scene.Release()
		}
		if e.renderer != nil {
			e.renderer.Release()
		}
		if e.window != nil {
			err = e.window.Close()
		}
	})
	return err
}
