// Package config loads the program settings: built-in defaults, then an optional YAML file,
// then OXY_* environment variables, then validation.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-cubes/engine/world"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OXY_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full program configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window" envPrefix:"WINDOW_"`
	Camera   CameraConfig   `yaml:"camera" envPrefix:"CAMERA_"`
	Renderer RendererConfig `yaml:"renderer" envPrefix:"RENDERER_"`
	Scene    SceneConfig    `yaml:"scene" envPrefix:"SCENE_"`
	Profiler ProfilerConfig `yaml:"profiler" envPrefix:"PROFILER_"`
}

// WindowConfig holds the initial window settings.
type WindowConfig struct {
	Title          string `yaml:"title" env:"TITLE"`
	Width          int    `yaml:"width" env:"WIDTH"`
	Height         int    `yaml:"height" env:"HEIGHT"`
	CursorCaptured bool   `yaml:"cursor_captured" env:"CURSOR_CAPTURED"`
}

// CameraConfig holds the projection, the starting pose, and the input tuning.
type CameraConfig struct {
	Fov         float32    `yaml:"fov" env:"FOV"`
	Near        float32    `yaml:"near" env:"NEAR"`
	Far         float32    `yaml:"far" env:"FAR"`
	Speed       float32    `yaml:"speed" env:"SPEED"`
	Sensitivity float64    `yaml:"sensitivity" env:"SENSITIVITY"`
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw" env:"YAW"`
	Pitch       float32    `yaml:"pitch" env:"PITCH"`

	// CursorOriginX and CursorOriginY are the reference point for the first cursor event.
	CursorOriginX float64 `yaml:"cursor_origin_x" env:"CURSOR_ORIGIN_X"`
	CursorOriginY float64 `yaml:"cursor_origin_y" env:"CURSOR_ORIGIN_Y"`
}

// RendererConfig holds the surface and pass settings.
type RendererConfig struct {
	VSync         bool       `yaml:"vsync" env:"VSYNC"`
	MSAA          int        `yaml:"msaa" env:"MSAA"`
	ClearColor    [4]float64 `yaml:"clear_color"`
	ForceSoftware bool       `yaml:"force_software" env:"FORCE_SOFTWARE"`
}

// TextureConfig describes one texture unit of the cube material.
type TextureConfig struct {
	Key       string `yaml:"key"`
	Path      string `yaml:"path"`
	WrapU     string `yaml:"wrap_u"`
	WrapV     string `yaml:"wrap_v"`
	MinFilter string `yaml:"min_filter"`
	MagFilter string `yaml:"mag_filter"`
	Flip      bool   `yaml:"flip"`
	Mipmaps   bool   `yaml:"mipmaps"`
}

// SceneConfig holds the cube world and its shader sources.
type SceneConfig struct {
	// VertexShader and FragmentShader are WGSL files. Empty selects the built-in source.
	VertexShader   string `yaml:"vertex_shader" env:"VERTEX_SHADER"`
	FragmentShader string `yaml:"fragment_shader" env:"FRAGMENT_SHADER"`

	// WatchShaders reloads the pipeline when a shader file changes.
	WatchShaders bool `yaml:"watch_shaders" env:"WATCH_SHADERS"`

	MixRatio  float32         `yaml:"mix_ratio" env:"MIX_RATIO"`
	AngleStep float32         `yaml:"angle_step" env:"ANGLE_STEP"`
	Textures  []TextureConfig `yaml:"textures"`
	Positions [][3]float32    `yaml:"positions"`
}

// ProfilerConfig controls the periodic frame stats log.
type ProfilerConfig struct {
	Enabled  bool          `yaml:"enabled" env:"ENABLED"`
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}

// Default returns the configuration of the stock program: a 1280x720 window, a 45 degree
// camera at (0, 0, 3), the ten cube positions, and the wall and face textures.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	positions := make([][3]float32, len(world.DefaultPositions))
	for i, p := range world.DefaultPositions {
		positions[i] = [3]float32{p.X(), p.Y(), p.Z()}
	}

	return Config{
		Window: WindowConfig{
			Title:          "Hello World",
			Width:          1280,
			Height:         720,
			CursorCaptured: true,
		},
		Camera: CameraConfig{
			Fov:           45,
			Near:          0.1,
			Far:           100,
			Speed:         2.5,
			Sensitivity:   0.1,
			Position:      [3]float32{0, 0, 3},
			Yaw:           -90,
			Pitch:         0,
			CursorOriginX: 400,
			CursorOriginY: 300,
		},
		Renderer: RendererConfig{
			VSync:      true,
			MSAA:       4,
			ClearColor: [4]float64{0.2, 0.3, 0.3, 1},
		},
		Scene: SceneConfig{
			MixRatio:  0.2,
			AngleStep: 20,
			Textures: []TextureConfig{
				{
					Key:       "wall",
					Path:      "resources/textures/wall.jpg",
					WrapU:     "mirrored_repeat",
					WrapV:     "mirrored_repeat",
					MinFilter: "nearest",
					MagFilter: "linear",
					Flip:      true,
				},
				{
					Key:       "face",
					Path:      "resources/textures/awesomeface.png",
					WrapU:     "repeat",
					WrapV:     "repeat",
					MinFilter: "linear",
					MagFilter: "linear",
					Flip:      true,
				},
			},
			Positions: positions,
		},
		Profiler: ProfilerConfig{
			Interval: time.Second,
		},
	}
}

// Load builds the configuration from Default, the YAML file at path when path is not
// empty, and OXY_* environment variables, in that order, then validates it.
//
// Parameters:
//   - path: a YAML file, or "" for defaults and environment only
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		log.Printf("[Config] loaded %s", path)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting the program cannot run with.
//
// Returns:
//   - error: an error wrapping ErrInvalid, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: fov %v not in (0, 180)", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes near %v far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Camera.Speed <= 0:
		return fmt.Errorf("%w: camera speed %v", ErrInvalid, c.Camera.Speed)
	case c.Camera.Sensitivity <= 0:
		return fmt.Errorf("%w: sensitivity %v", ErrInvalid, c.Camera.Sensitivity)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalid, c.Renderer.MSAA)
	case c.Scene.MixRatio < 0 || c.Scene.MixRatio > 1:
		return fmt.Errorf("%w: mix ratio %v not in [0, 1]", ErrInvalid, c.Scene.MixRatio)
	case len(c.Scene.Positions) == 0:
		return fmt.Errorf("%w: no cube positions", ErrInvalid)
	case len(c.Scene.Textures) == 0:
		return fmt.Errorf("%w: no textures", ErrInvalid)
	case c.Profiler.Enabled && c.Profiler.Interval <= 0:
		return fmt.Errorf("%w: profiler interval %v", ErrInvalid, c.Profiler.Interval)
	}

	seen := make(map[string]bool, len(c.Scene.Textures))
	for i, t := range c.Scene.Textures {
		if t.Key == "" {
			return fmt.Errorf("%w: texture %d has no key", ErrInvalid, i)
		}
		if seen[t.Key] {
			return fmt.Errorf("%w: duplicate texture key %q", ErrInvalid, t.Key)
		}
		seen[t.Key] = true
		if _, err := t.Options(); err != nil {
			return fmt.Errorf("%w: texture %q: %v", ErrInvalid, t.Key, err)
		}
	}
	return nil
}

// Options converts the texture settings into builder options.
//
// Returns:
//   - []texture.TextureBuilderOption: wrap, filter, flip and mipmap options
//   - error: an error for an unknown wrap or filter name
func (t TextureConfig) Options() ([]texture.TextureBuilderOption, error) {
	wrapU, err := texture.ParseAddressMode(t.WrapU)
	if err != nil {
		return nil, err
	}
	wrapV, err := texture.ParseAddressMode(t.WrapV)
	if err != nil {
		return nil, err
	}
	minFilter, err := texture.ParseFilterMode(t.MinFilter)
	if err != nil {
		return nil, err
	}
	magFilter, err := texture.ParseFilterMode(t.MagFilter)
	if err != nil {
		return nil, err
	}

	opts := []texture.TextureBuilderOption{
		texture.WithWrap(wrapU, wrapV),
		texture.WithFilter(minFilter, magFilter),
	}
	if t.Flip {
		opts = append(opts, texture.WithFlipVertical())
	}
	if t.Mipmaps {
		opts = append(opts, texture.WithFullMipChain())
	}
	return opts, nil
}
