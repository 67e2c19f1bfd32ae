package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math/bits"

	"github.com/Carmen-Shannon/oxy-cubes/common"
	"github.com/anthonynsimon/bild/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture errors.
var (
	ErrEmptyImage        = errors.New("image has zero width or height")
	ErrOriginOutOfBounds = errors.New("image placed at origin does not fit the texture storage")
	ErrMipLevels         = errors.New("mip level count out of range")
)

type textureImpl struct {
	key string

	format                      wgpu.TextureFormat
	wrapU, wrapV                wgpu.AddressMode
	minFilter, magFilter        wgpu.FilterMode
	mipLevels                   int
	fullMipChain                bool
	flipVertical                bool
	storageWidth, storageHeight uint32
	originX, originY            uint32

	staging common.TextureStagingData
	sampler common.SamplerStagingData
}

// Texture is a decoded image prepared for GPU upload: per-mip-level RGBA pixels plus the
// sampler state used to read it. Building a Texture does no GPU work; the renderer creates
// the GPU objects from Staging and Sampler.
type Texture interface {
	// Key returns the texture's identifier.
	Key() string

	// Width returns the level 0 image width in pixels.
	Width() uint32

	// Height returns the level 0 image height in pixels.
	Height() uint32

	// MipLevels returns the number of prepared mip levels.
	MipLevels() int

	// Staging returns the pixel data and placement for the renderer.
	//
	// Returns:
	//   - common.TextureStagingData: levels, sizes, origin and format
	Staging() common.TextureStagingData

	// Sampler returns the sampler configuration for the renderer.
	//
	// Returns:
	//   - common.SamplerStagingData: wrap and filter modes
	Sampler() common.SamplerStagingData
}

var _ Texture = &textureImpl{}

// NewTexture converts img into a Texture. Defaults: sRGB RGBA8 format, repeat wrapping,
// linear filtering, one mip level, no flip, storage sized to the image.
//
// Parameters:
//   - key: the texture identifier, also used as the GPU label
//   - img: the source image
//   - options: functional options to configure the texture
//
// Returns:
//   - Texture: the prepared texture
//   - error: ErrEmptyImage, ErrOriginOutOfBounds or ErrMipLevels
func NewTexture(key string, img image.Image, options ...TextureBuilderOption) (Texture, error) {
	t := &textureImpl{
		key:       key,
		format:    wgpu.TextureFormatRGBA8UnormSrgb,
		wrapU:     wgpu.AddressModeRepeat,
		wrapV:     wgpu.AddressModeRepeat,
		minFilter: wgpu.FilterModeLinear,
		magFilter: wgpu.FilterModeLinear,
		mipLevels: 1,
	}
	for _, option := range options {
		option(t)
	}

	if img == nil || img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("texture %q: %w", key, ErrEmptyImage)
	}

	base := toRGBA(img)
	if t.flipVertical {
		base = transform.FlipV(base)
	}
	width, height := uint32(base.Rect.Dx()), uint32(base.Rect.Dy())

	maxLevels := MaxMipLevels(width, height)
	if t.fullMipChain {
		t.mipLevels = maxLevels
	}
	if t.mipLevels < 1 || t.mipLevels > maxLevels {
		return nil, fmt.Errorf("texture %q: %w: %d (image allows 1..%d)", key, ErrMipLevels, t.mipLevels, maxLevels)
	}

	storageW := common.Coalesce(t.storageWidth, t.originX+width)
	storageH := common.Coalesce(t.storageHeight, t.originY+height)
	if t.originX+width > storageW || t.originY+height > storageH {
		return nil, fmt.Errorf("texture %q: %w: %dx%d at (%d, %d) in %dx%d storage",
			key, ErrOriginOutOfBounds, width, height, t.originX, t.originY, storageW, storageH)
	}

	t.staging = common.TextureStagingData{
		Label:         key,
		Width:         width,
		Height:        height,
		StorageWidth:  storageW,
		StorageHeight: storageH,
		OriginX:       t.originX,
		OriginY:       t.originY,
		Format:        t.format,
	}
	for level := range t.mipLevels {
		lw, lh := t.staging.LevelSize(level)
		sw, sh := max(storageW>>level, 1), max(storageH>>level, 1)
		if t.originX>>level+lw > sw || t.originY>>level+lh > sh {
			return nil, fmt.Errorf("texture %q: %w: mip level %d does not fit", key, ErrOriginOutOfBounds, level)
		}
		if level == 0 {
			t.staging.Levels = append(t.staging.Levels, base.Pix)
			continue
		}
		t.staging.Levels = append(t.staging.Levels, transform.Resize(base, int(lw), int(lh), transform.Linear).Pix)
	}

	mipFilter := wgpu.MipmapFilterModeNearest
	if t.mipLevels > 1 {
		mipFilter = wgpu.MipmapFilterModeLinear
	}
	t.sampler = common.SamplerStagingData{
		AddressModeU:  t.wrapU,
		AddressModeV:  t.wrapV,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     t.magFilter,
		MinFilter:     t.minFilter,
		MipmapFilter:  mipFilter,
		LodMinClamp:   0,
		LodMaxClamp:   float32(t.mipLevels),
		MaxAnisotropy: 1,
	}
	return t, nil
}

func (t *textureImpl) Key() string {
	return t.key
}

func (t *textureImpl) Width() uint32 {
	return t.staging.Width
}

func (t *textureImpl) Height() uint32 {
	return t.staging.Height
}

func (t *textureImpl) MipLevels() int {
	return len(t.staging.Levels)
}

func (t *textureImpl) Staging() common.TextureStagingData {
	return t.staging
}

func (t *textureImpl) Sampler() common.SamplerStagingData {
	return t.sampler
}

// MaxMipLevels returns the length of the full mip chain for an image, down to 1x1.
//
// Parameters:
//   - width, height: the level 0 size
//
// Returns:
//   - int: floor(log2(max(width, height))) + 1
func MaxMipLevels(width, height uint32) int {
	return bits.Len32(max(width, height, 1))
}

// toRGBA returns img as a tightly packed *image.RGBA with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
