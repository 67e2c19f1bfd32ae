package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/input"
	"github.com/Carmen-Shannon/oxy-cubes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often the profiler logs.
//
// Parameters:
//   - interval: the logging interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(profiler.WithInterval(interval))
	}
}

// WithWindow sets the window the engine polls and draws into.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer that owns the GPU device.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCamera sets the camera. Defaults to camera.NewCamera().
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithInput sets the input controller. Defaults to input.NewController().
func WithInput(c input.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.input = c
	}
}

// WithScene sets the scene drawn each frame.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithShaderWatcher reloads the scene's shaders whenever w reports a change.
func WithShaderWatcher(w shader.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithCameraSpeed sets the movement speed in units per second. Values <= 0 keep the default of 2.5.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraSpeed(speed float32) EngineBuilderOption {
	return func(e *engine) {
		if speed > 0 {
			e.cameraSpeed = speed
		}
	}
}
