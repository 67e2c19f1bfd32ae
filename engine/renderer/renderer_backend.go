package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Renderer errors.
var (
	// ErrSkipFrame is returned by BeginFrame when there is nothing to draw into, e.g. while the
	// window is minimized. The caller should skip the frame and try again next iteration.
	ErrSkipFrame = errors.New("surface unavailable, frame skipped")

	// ErrNoFrame is returned by Draw outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("draw called outside a frame")
)

// defaultUniformAlignment is the WebGPU default for MinUniformBufferOffsetAlignment.
const defaultUniformAlignment = 256

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// presentModeFor maps a PresentMode onto the WebGPU present mode.
func presentModeFor(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}

// preferredSurfaceFormat picks the first sRGB format the surface supports, so sRGB textures
// are written back out with the matching transfer function. Falls back to the first format.
func preferredSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8UnormSrgb || f == wgpu.TextureFormatRGBA8UnormSrgb {
			return f
		}
	}
	if len(formats) == 0 {
		return wgpu.TextureFormatBGRA8UnormSrgb
	}
	return formats[0]
}

// uniformAlignment returns the device alignment, or the WebGPU default when the device reports none.
func uniformAlignment(limit uint32) uint64 {
	if limit == 0 {
		return defaultUniformAlignment
	}
	return uint64(limit)
}
