// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// The renderer creates a texture of StorageWidth x StorageHeight with len(Levels) mip levels
// and writes each level at Origin scaled down by the level index.
type TextureStagingData struct {
	// Label is used for the GPU texture label.
	Label string

	// Levels holds the RGBA pixels of each mip level, level 0 first, 4 bytes per pixel.
	Levels [][]byte

	// Width and Height are the level 0 image size in pixels.
	Width, Height uint32

	// StorageWidth and StorageHeight are the allocated texture size. They are at least
	// Origin + image size.
	StorageWidth, StorageHeight uint32

	// OriginX and OriginY place the image within the storage, in level 0 pixels.
	OriginX, OriginY uint32

	// Format is the GPU texture format. Must be a 4-byte-per-pixel RGBA format.
	Format wgpu.TextureFormat
}

// LevelSize returns the pixel size of the given mip level, halving per level and
// never dropping below 1.
//
// Parameters:
//   - level: the mip level index
//
// Returns:
//   - uint32: the level width
//   - uint32: the level height
func (t TextureStagingData) LevelSize(level int) (uint32, uint32) {
	return max(t.Width>>level, 1), max(t.Height>>level, 1)
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
