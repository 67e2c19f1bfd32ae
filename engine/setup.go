package engine

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/Carmen-Shannon/oxy-cubes/engine/camera"
	"github.com/Carmen-Shannon/oxy-cubes/engine/config"
	"github.com/Carmen-Shannon/oxy-cubes/engine/input"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-cubes/engine/scene"
	"github.com/Carmen-Shannon/oxy-cubes/engine/window"
	"github.com/Carmen-Shannon/oxy-cubes/engine/world"
	"github.com/go-gl/mathgl/mgl32"
)

const fallbackSize = 256

// FromConfig creates the window, renderer, camera, input controller and cube scene described
// by cfg and returns an engine wired to them. Must be called on the main thread.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - Engine: the ready engine; call Close when Run returns
//   - error: a scene or watcher setup error
func FromConfig(cfg config.Config) (Engine, error) {
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithCursorCaptured(cfg.Window.CursorCaptured),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.Renderer.VSync {
		presentMode = renderer.PresentModeVSync
	}
	cc := cfg.Renderer.ClearColor
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)

	specs, err := TextureSpecs(cfg.Scene.Textures)
	if err != nil {
		r.Release()
		_ = win.Close()
		return nil, err
	}

	positions := make([]mgl32.Vec3, len(cfg.Scene.Positions))
	for i, p := range cfg.Scene.Positions {
		positions[i] = mgl32.Vec3(p)
	}
	cubes := world.NewWorld(positions, world.WithAngleStep(cfg.Scene.AngleStep))

	s, err := scene.NewScene(r, cubes,
		scene.WithShaderPaths(cfg.Scene.VertexShader, cfg.Scene.FragmentShader),
		scene.WithTextureSpecs(specs...),
		scene.WithMixRatio(cfg.Scene.MixRatio),
	)
	if err != nil {
		r.Release()
		_ = win.Close()
		return nil, fmt.Errorf("build scene: %w", err)
	}

	width, height := win.FramebufferSize()
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	pos := cfg.Camera.Position
	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.Fov),
		camera.WithAspect(aspect),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(pos[0], pos[1], pos[2]),
			camera.WithYawPitch(cfg.Camera.Yaw, cfg.Camera.Pitch),
		)),
	)

	controls := input.NewController(
		input.WithSensitivity(cfg.Camera.Sensitivity),
		input.WithCursorOrigin(cfg.Camera.CursorOriginX, cfg.Camera.CursorOriginY),
	)

	options := []EngineBuilderOption{
		WithWindow(win),
		WithRenderer(r),
		WithScene(s),
		WithCamera(cam),
		WithInput(controls),
		WithCameraSpeed(cfg.Camera.Speed),
		WithProfiling(cfg.Profiler.Enabled),
		WithProfilerInterval(cfg.Profiler.Interval),
	}

	if paths := s.ShaderPaths(); cfg.Scene.WatchShaders && len(paths) > 0 {
		watcher, err := shader.NewWatcher()
		if err == nil {
			err = watcher.Watch(paths...)
		}
		if err != nil {
			log.Printf("[Engine] shader watcher disabled: %v", err)
		} else {
			options = append(options, WithShaderWatcher(watcher))
		}
	}

	return NewEngine(options...), nil
}

// TextureSpecs converts texture settings into load specs. Every spec falls back to a
// generated image when its file is missing.
//
// Parameters:
//   - textures: the configured texture units in order
//
// Returns:
//   - []texture.Spec: one spec per texture
//   - error: an error for unknown wrap or filter names
func TextureSpecs(textures []config.TextureConfig) ([]texture.Spec, error) {
	specs := make([]texture.Spec, len(textures))
	for i, t := range textures {
		opts, err := t.Options()
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", t.Key, err)
		}
		key := t.Key
		specs[i] = texture.Spec{
			Key:      key,
			Path:     t.Path,
			Fallback: func() image.Image { return FallbackImage(key) },
			Options:  opts,
		}
	}
	return specs, nil
}

// FallbackImage generates the stand-in image for a texture key: a smiley for "face" and a
// brick-colored checkerboard for anything else.
func FallbackImage(key string) image.Image {
	if key == "face" {
		return texture.Face(fallbackSize)
	}
	return texture.Checkerboard(fallbackSize, 8,
		color.RGBA{R: 150, G: 75, B: 50, A: 255},
		color.RGBA{R: 190, G: 170, B: 150, A: 255},
	)
}
