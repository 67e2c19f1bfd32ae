package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// twoRows is a 4x2 image with a red top row and a blue bottom row.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := range 4 {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	return img
}

func pixel(t *testing.T, pix []byte, width, x, y int) color.RGBA {
	t.Helper()
	i := (y*width + x) * 4
	return color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
}

func TestNewTextureDefaults(t *testing.T) {
	tex, err := NewTexture("rows", twoRows())
	require.NoError(t, err)

	assert.Equal(t, "rows", tex.Key())
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(2), tex.Height())
	assert.Equal(t, 1, tex.MipLevels())

	st := tex.Staging()
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, st.Format)
	assert.Equal(t, uint32(4), st.StorageWidth)
	assert.Equal(t, uint32(2), st.StorageHeight)
	require.Len(t, st.Levels, 1)
	assert.Len(t, st.Levels[0], 4*2*4)
	assert.Equal(t, red, pixel(t, st.Levels[0], 4, 0, 0))

	s := tex.Sampler()
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeU)
	assert.Equal(t, wgpu.FilterModeLinear, s.MinFilter)
	assert.Equal(t, wgpu.MipmapFilterModeNearest, s.MipmapFilter)
	assert.Equal(t, uint16(1), s.MaxAnisotropy)
}

func TestNewTextureFlip(t *testing.T) {
	tex, err := NewTexture("rows", twoRows(), WithFlipVertical())
	require.NoError(t, err)
	pix := tex.Staging().Levels[0]
	assert.Equal(t, blue, pixel(t, pix, 4, 0, 0))
	assert.Equal(t, red, pixel(t, pix, 4, 3, 1))
}

func TestNewTextureSamplerOptions(t *testing.T) {
	tex, err := NewTexture("wall", twoRows(),
		WithWrap(wgpu.AddressModeMirrorRepeat, wgpu.AddressModeClampToEdge),
		WithFilter(wgpu.FilterModeNearest, wgpu.FilterModeLinear),
		WithFormat(wgpu.TextureFormatRGBA8Unorm),
	)
	require.NoError(t, err)
	s := tex.Sampler()
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, s.AddressModeU)
	assert.Equal(t, wgpu.AddressModeClampToEdge, s.AddressModeV)
	assert.Equal(t, wgpu.FilterModeNearest, s.MinFilter)
	assert.Equal(t, wgpu.FilterModeLinear, s.MagFilter)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, tex.Staging().Format)
}

func TestNewTextureMipmaps(t *testing.T) {
	img := Checkerboard(16, 4, red, blue)

	tex, err := NewTexture("checker", img, WithFullMipChain())
	require.NoError(t, err)
	require.Equal(t, 5, tex.MipLevels())
	st := tex.Staging()
	for level, pix := range st.Levels {
		w, h := st.LevelSize(level)
		assert.Len(t, pix, int(w*h*4), "level %d", level)
	}
	assert.Equal(t, wgpu.MipmapFilterModeLinear, tex.Sampler().MipmapFilter)
	assert.Equal(t, float32(5), tex.Sampler().LodMaxClamp)

	tex, err = NewTexture("checker", img, WithMipmaps(3))
	require.NoError(t, err)
	assert.Equal(t, 3, tex.MipLevels())

	_, err = NewTexture("checker", img, WithMipmaps(0))
	assert.ErrorIs(t, err, ErrMipLevels)
	_, err = NewTexture("checker", img, WithMipmaps(6))
	assert.ErrorIs(t, err, ErrMipLevels)
}

func TestNewTextureOrigin(t *testing.T) {
	tex, err := NewTexture("sub", twoRows(), WithOrigin(2, 1), WithStorageSize(8, 4))
	require.NoError(t, err)
	st := tex.Staging()
	assert.Equal(t, uint32(2), st.OriginX)
	assert.Equal(t, uint32(1), st.OriginY)
	assert.Equal(t, uint32(8), st.StorageWidth)

	tex, err = NewTexture("sub", twoRows(), WithOrigin(1, 1))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), tex.Staging().StorageWidth)
	assert.Equal(t, uint32(3), tex.Staging().StorageHeight)

	_, err = NewTexture("sub", twoRows(), WithOrigin(5, 0), WithStorageSize(8, 4))
	assert.ErrorIs(t, err, ErrOriginOutOfBounds)
}

func TestNewTextureEmpty(t *testing.T) {
	_, err := NewTexture("empty", image.NewRGBA(image.Rect(0, 0, 0, 4)))
	assert.ErrorIs(t, err, ErrEmptyImage)
	_, err = NewTexture("nil", nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestNewTextureConvertsSubImage(t *testing.T) {
	big := Checkerboard(8, 2, red, blue)
	sub := big.SubImage(image.Rect(4, 0, 8, 4))
	tex, err := NewTexture("sub", sub)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, blue, pixel(t, tex.Staging().Levels[0], 4, 0, 0))
}

func TestMaxMipLevels(t *testing.T) {
	assert.Equal(t, 1, MaxMipLevels(1, 1))
	assert.Equal(t, 10, MaxMipLevels(512, 300))
	assert.Equal(t, 11, MaxMipLevels(1024, 1))
}

func TestDecodeAndLoadFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, twoRows()))

	img, format, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, _, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "rows.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	img, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcedural(t *testing.T) {
	c := Checkerboard(8, 2, red, blue)
	assert.Equal(t, red, c.RGBAAt(0, 0))
	assert.Equal(t, blue, c.RGBAAt(4, 0))
	assert.Equal(t, red, c.RGBAAt(4, 4))

	f := Face(64)
	assert.Equal(t, uint8(0), f.RGBAAt(0, 0).A, "corners are transparent")
	assert.Equal(t, uint8(255), f.RGBAAt(32, 32).A)
}

func TestParseModes(t *testing.T) {
	m, err := ParseAddressMode("MIRRORED_REPEAT")
	require.NoError(t, err)
	assert.Equal(t, wgpu.AddressModeMirrorRepeat, m)
	_, err = ParseAddressMode("wrap")
	assert.Error(t, err)

	f, err := ParseFilterMode("nearest")
	require.NoError(t, err)
	assert.Equal(t, wgpu.FilterModeNearest, f)
	_, err = ParseFilterMode("cubic")
	assert.Error(t, err)
}
