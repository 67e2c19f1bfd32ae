package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, presentModeFor(PresentModeVSync))
	assert.Equal(t, wgpu.PresentModeImmediate, presentModeFor(PresentModeUncapped))
	assert.Equal(t, wgpu.PresentModeImmediate, presentModeFor(PresentMode(42)))
}

func TestPreferredSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
	}{
		{
			name:    "srgb after linear",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
			want:    wgpu.TextureFormatBGRA8UnormSrgb,
		},
		{
			name:    "rgba srgb",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb},
			want:    wgpu.TextureFormatRGBA8UnormSrgb,
		},
		{
			name:    "no srgb falls back to first",
			formats: []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8Unorm},
			want:    wgpu.TextureFormatRGBA8Unorm,
		},
		{
			name: "empty",
			want: wgpu.TextureFormatBGRA8UnormSrgb,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preferredSurfaceFormat(tt.formats))
		})
	}
}

func TestUniformAlignment(t *testing.T) {
	assert.Equal(t, uint64(256), uniformAlignment(0))
	assert.Equal(t, uint64(64), uniformAlignment(64))
	assert.Equal(t, uint64(256), uniformAlignment(256))
}

func TestRendererBuilderOptions(t *testing.T) {
	r := &renderer{}
	WithPresentMode(PresentModeUncapped)(r)
	WithMSAA(MSAAOff)(r)
	WithClearColor(0.1, 0.2, 0.3, 1)(r)
	WithForceSoftwareRenderer(true)(r)

	assert.Equal(t, PresentModeUncapped, r.presentMode)
	assert.Equal(t, MSAAOff, r.msaa)
	assert.Equal(t, wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}, r.clearColor)
	assert.True(t, r.forceFallbackAdapter)
}
