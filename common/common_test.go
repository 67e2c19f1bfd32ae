package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	tests := []struct {
		value, alignment, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{128, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{10, 0, 10},
		{7, 6, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlignUp(tt.value, tt.alignment), "AlignUp(%d, %d)", tt.value, tt.alignment)
	}
}

func TestFloat32sToBytes(t *testing.T) {
	b := Float32sToBytes([]float32{1, -2})
	require.Len(t, b, 8)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b[:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0xc0}, b[4:])
	assert.Nil(t, Float32sToBytes(nil))
}

func TestUint32sToBytes(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 1, 0, 0}, Uint32sToBytes([]uint32{1, 256}))
}

func TestMat4ToBytesLength(t *testing.T) {
	assert.Len(t, Mat4ToBytes(mgl32.Ident4()), 64)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(45, 16.0/9.0, 0.1, 100)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestFrustumSphereVisible(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(Perspective(45, 1, 0.1, 100).Mul4(view))

	assert.True(t, f.SphereVisible(mgl32.Vec3{0, 0, 0}, 0.5))
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, 10}, 0.5), "behind the camera")
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, -200}, 0.5), "past the far plane")
	assert.False(t, f.SphereVisible(mgl32.Vec3{50, 0, 0}, 0.5), "far to the right")
}

func TestCoalesceAndClamp(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, float32(89), Clamp(float32(120), -89, 89))
	assert.Equal(t, float32(-89), Clamp(float32(-95), -89, 89))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestLevelSize(t *testing.T) {
	s := TextureStagingData{Width: 8, Height: 2}
	w, h := s.LevelSize(2)
	assert.Equal(t, uint32(2), w)
	assert.Equal(t, uint32(1), h)
}
