package texture

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureBuilderOption is a functional option applied to a texture during construction via NewTexture.
type TextureBuilderOption func(*textureImpl)

// WithFormat sets the GPU texture format. It must be a 4-byte RGBA format.
//
// Parameters:
//   - format: the texture format, e.g. wgpu.TextureFormatRGBA8Unorm for non-color data
//
// Returns:
//   - TextureBuilderOption: a function that sets the format
func WithFormat(format wgpu.TextureFormat) TextureBuilderOption {
	return func(t *textureImpl) {
		t.format = format
	}
}

// WithWrap sets the address modes for the u and v texture coordinates.
//
// Parameters:
//   - u: horizontal wrap mode
//   - v: vertical wrap mode
//
// Returns:
//   - TextureBuilderOption: a function that sets the wrap modes
func WithWrap(u, v wgpu.AddressMode) TextureBuilderOption {
	return func(t *textureImpl) {
		t.wrapU = u
		t.wrapV = v
	}
}

// WithFilter sets the minification and magnification filters.
//
// Parameters:
//   - minFilter: filter used when the texture is shrunk
//   - magFilter: filter used when the texture is enlarged
//
// Returns:
//   - TextureBuilderOption: a function that sets the filters
func WithFilter(minFilter, magFilter wgpu.FilterMode) TextureBuilderOption {
	return func(t *textureImpl) {
		t.minFilter = minFilter
		t.magFilter = magFilter
	}
}

// WithMipmaps sets the number of mip levels to generate, including level 0.
//
// Parameters:
//   - levels: the level count, 1 for no mipmaps
//
// Returns:
//   - TextureBuilderOption: a function that sets the level count
func WithMipmaps(levels int) TextureBuilderOption {
	return func(t *textureImpl) {
		t.mipLevels = levels
		t.fullMipChain = false
	}
}

// WithFullMipChain generates every mip level down to 1x1.
//
// Returns:
//   - TextureBuilderOption: a function that enables the full chain
func WithFullMipChain() TextureBuilderOption {
	return func(t *textureImpl) {
		t.fullMipChain = true
	}
}

// WithFlipVertical flips the image so its first row lands at v = 0. Images decode top row
// first, so enable this when uvs treat v = 0 as the bottom.
//
// Returns:
//   - TextureBuilderOption: a function that enables the flip
func WithFlipVertical() TextureBuilderOption {
	return func(t *textureImpl) {
		t.flipVertical = true
	}
}

// WithStorageSize allocates a texture larger than the image. Zero keeps the computed size.
//
// Parameters:
//   - width, height: the allocated size in pixels
//
// Returns:
//   - TextureBuilderOption: a function that sets the storage size
func WithStorageSize(width, height uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.storageWidth = width
		t.storageHeight = height
	}
}

// WithOrigin places the image at an offset inside the storage, as a sub-image upload.
//
// Parameters:
//   - x, y: the offset in pixels
//
// Returns:
//   - TextureBuilderOption: a function that sets the origin
func WithOrigin(x, y uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.originX = x
		t.originY = y
	}
}

// ParseAddressMode maps a wrap mode name to its wgpu value. Accepts repeat,
// mirrored_repeat (or mirror_repeat) and clamp_to_edge.
//
// Parameters:
//   - name: the wrap mode name, case-insensitive
//
// Returns:
//   - wgpu.AddressMode: the address mode
//   - error: an error for unknown names
func ParseAddressMode(name string) (wgpu.AddressMode, error) {
	switch strings.ToLower(name) {
	case "", "repeat":
		return wgpu.AddressModeRepeat, nil
	case "mirrored_repeat", "mirror_repeat":
		return wgpu.AddressModeMirrorRepeat, nil
	case "clamp_to_edge", "clamp":
		return wgpu.AddressModeClampToEdge, nil
	default:
		return wgpu.AddressModeRepeat, fmt.Errorf("unknown wrap mode %q", name)
	}
}

// ParseFilterMode maps a filter name (nearest or linear) to its wgpu value.
//
// Parameters:
//   - name: the filter name, case-insensitive
//
// Returns:
//   - wgpu.FilterMode: the filter mode
//   - error: an error for unknown names
func ParseFilterMode(name string) (wgpu.FilterMode, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return wgpu.FilterModeLinear, nil
	case "nearest":
		return wgpu.FilterModeNearest, nil
	default:
		return wgpu.FilterModeLinear, fmt.Errorf("unknown filter mode %q", name)
	}
}
