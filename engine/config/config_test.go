package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cubes/engine/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Hello World", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, float32(45), cfg.Camera.Fov)
	assert.Equal(t, float32(2.5), cfg.Camera.Speed)
	assert.Equal(t, [4]float64{0.2, 0.3, 0.3, 1}, cfg.Renderer.ClearColor)
	assert.Equal(t, float32(0.2), cfg.Scene.MixRatio)
	assert.Len(t, cfg.Scene.Positions, len(world.DefaultPositions))
	assert.Equal(t, [3]float32{2, 5, -15}, cfg.Scene.Positions[1])
	require.Len(t, cfg.Scene.Textures, 2)
	assert.Equal(t, "wall", cfg.Scene.Textures[0].Key)
	assert.Equal(t, "face", cfg.Scene.Textures[1].Key)
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Window, cfg.Window)
}

func TestLoadYAMLOverridesSomeFields(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
camera:
  fov: 60
scene:
  textures:
    - key: grid
      wrap_u: clamp_to_edge
profiler:
  enabled: true
  interval: 250ms
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep defaults")
	assert.Equal(t, "Hello World", cfg.Window.Title)
	assert.Equal(t, float32(60), cfg.Camera.Fov)
	require.Len(t, cfg.Scene.Textures, 1, "a YAML list replaces the default list")
	assert.Equal(t, "grid", cfg.Scene.Textures[0].Key)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Profiler.Interval)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "window:\n  width: 800\n")
	t.Setenv("OXY_WINDOW_WIDTH", "1024")
	t.Setenv("OXY_CAMERA_SPEED", "5")
	t.Setenv("OXY_RENDERER_VSYNC", "false")
	t.Setenv("OXY_SCENE_VERTEX_SHADER", "shaders/cube.wgsl")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, float32(5), cfg.Camera.Speed)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, "shaders/cube.wgsl", cfg.Scene.VertexShader)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "window: [1, 2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("OXY_WINDOW_HEIGHT", "tall")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := Load(writeConfig(t, "renderer:\n  msaa: 2\n"))
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"fov too wide", func(c *Config) { c.Camera.Fov = 180 }},
		{"near not positive", func(c *Config) { c.Camera.Near = 0 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }},
		{"no speed", func(c *Config) { c.Camera.Speed = 0 }},
		{"no sensitivity", func(c *Config) { c.Camera.Sensitivity = -1 }},
		{"msaa 8", func(c *Config) { c.Renderer.MSAA = 8 }},
		{"mix above one", func(c *Config) { c.Scene.MixRatio = 1.5 }},
		{"no cubes", func(c *Config) { c.Scene.Positions = nil }},
		{"no textures", func(c *Config) { c.Scene.Textures = nil }},
		{"profiler without interval", func(c *Config) {
			c.Profiler.Enabled = true
			c.Profiler.Interval = 0
		}},
		{"texture without key", func(c *Config) { c.Scene.Textures[0].Key = "" }},
		{"duplicate texture key", func(c *Config) { c.Scene.Textures[1].Key = "wall" }},
		{"unknown wrap", func(c *Config) { c.Scene.Textures[0].WrapU = "spiral" }},
		{"unknown filter", func(c *Config) { c.Scene.Textures[1].MagFilter = "cubic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestTextureConfigOptions(t *testing.T) {
	opts, err := TextureConfig{Key: "a"}.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	opts, err = TextureConfig{Key: "a", Flip: true, Mipmaps: true}.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	_, err = TextureConfig{Key: "a", MinFilter: "bogus"}.Options()
	assert.Error(t, err)
}
